// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package item defines the data model shared by the tally engine packages.
//
// # Description
//
// Items form a read-only hierarchy supplied by the caller; the engine never
// mutates them. Variable definitions describe reusable named quantities
// ("flour", unit "cups"), variable entries attach concrete quantities to
// items, and variable descriptions carry free-text documentation that may
// cross-link other definitions using [name] bracket syntax.
//
// # Thread Safety
//
// Plain structs in this package are values and carry no synchronization.
// Catalog is safe for concurrent use.
package item

import "time"

// ChildRef is a native-tree child pointer on an item.
type ChildRef struct {
	// ID is the child item's id.
	ID string `json:"id"`

	// Start is the child's offset within the parent, in the same unit
	// as Item.Duration.
	Start float64 `json:"start"`
}

// ParentRef is a native-tree parent pointer on an item.
type ParentRef struct {
	// ID is the parent item's id.
	ID string `json:"id"`

	// RelationshipID identifies the explicit relationship edge, when one
	// exists. Empty for plain containment.
	RelationshipID string `json:"relationshipId,omitempty"`
}

// Item is a read-only node in the caller's work-item hierarchy.
//
// The engine only ever reads items. Children and Parents describe the native
// tree; explicit relationship edges live in the relation package and take
// precedence during aggregation.
type Item struct {
	// ID uniquely identifies the item.
	ID string `json:"id"`

	// Duration is the item's length in caller-defined units.
	Duration float64 `json:"duration"`

	// Children are native-tree child references. May be empty.
	Children []ChildRef `json:"children,omitempty"`

	// Parents are native-tree parent references. May be empty.
	Parents []ParentRef `json:"parents,omitempty"`

	// UpdatedAt is the item's last-modified time, when the caller tracks
	// one. The zero value means unknown and disables content-version
	// keying for this item.
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// VariableEntry is one named quantity attached to an item.
//
// Quantity may be negative (consumption) or positive (production); the sign
// is preserved through aggregation.
type VariableEntry struct {
	// Name is the variable name. Matched case-insensitively against
	// definition names.
	Name string `json:"name"`

	// Quantity is the signed amount.
	Quantity float64 `json:"quantity"`

	// Unit is an optional unit label ("cups").
	Unit string `json:"unit,omitempty"`

	// Category is an optional grouping label.
	Category string `json:"category,omitempty"`
}

// VariableMap maps item id to that item's own variable entries.
//
// Supplied fresh by the caller on each calculation; the engine takes no
// ownership and never mutates it.
type VariableMap map[string][]VariableEntry

// VariableDefinition is the reusable named type of a variable.
type VariableDefinition struct {
	// ID uniquely identifies the definition.
	ID string `json:"id"`

	// Name is unique among definitions, compared case-insensitively.
	Name string `json:"name"`

	// Unit is the default unit for instances of this variable.
	Unit string `json:"unit,omitempty"`

	// Category is an optional grouping label.
	Category string `json:"category,omitempty"`

	// CreatedAt is when the definition was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the definition was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// VariableDescription is free-text documentation for a definition.
//
// Content may embed [other_variable_name] references. At most one
// description exists per definition; deleting the definition deletes it.
type VariableDescription struct {
	// ID uniquely identifies the description.
	ID string `json:"id"`

	// DefinitionID is the owning definition (1:1).
	DefinitionID string `json:"variableDefinitionId"`

	// Content is the documentation text.
	Content string `json:"content"`

	// CreatedAt is when the description was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the description was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}
