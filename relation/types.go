// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package relation maintains the explicit relationship graph between items.
//
// # Description
//
// A relationship is a directed, multiplier-weighted edge parent -> child
// meaning "the parent's variable summary includes the child's variables
// scaled by the multiplier". Relationships are independent of the item
// tree's native containment pointers and must stay acyclic; inserts are
// gated by a reachability check.
//
// # Thread Safety
//
// Tracker is safe for concurrent use.
package relation

// DefaultMultiplier is used when bootstrapping edges from native parent refs.
const DefaultMultiplier = 1.0

// ChildLink is an outgoing edge from a parent's point of view.
type ChildLink struct {
	// RelationshipID uniquely identifies the edge.
	RelationshipID string `json:"relationshipId"`

	// ChildID is the item whose variables are included.
	ChildID string `json:"childItemId"`

	// Multiplier scales the child's contribution.
	Multiplier float64 `json:"multiplier"`
}

// ParentLink is an incoming edge from a child's point of view.
type ParentLink struct {
	// RelationshipID uniquely identifies the edge.
	RelationshipID string `json:"relationshipId"`

	// ParentID is the item including this child's variables.
	ParentID string `json:"parentItemId"`

	// Multiplier scales this child's contribution.
	Multiplier float64 `json:"multiplier"`
}

// ValidationReport is the result of a relationship graph health check.
type ValidationReport struct {
	// TotalRelationships is the number of edges in the graph.
	TotalRelationships int `json:"totalRelationships"`

	// CircularReferences is the number of back edges found. Zero for a
	// healthy graph; inserts are gated, so nonzero normally means edges
	// were loaded from already-corrupt persisted data.
	CircularReferences int `json:"circularReferences"`

	// OrphanedRelationships counts edges with an endpoint missing from
	// the item universe passed to ValidateAgainstItems. Zero when the
	// report came from ValidateRelationships.
	OrphanedRelationships int `json:"orphanedRelationships"`
}
