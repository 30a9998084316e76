// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package item

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Catalog owns variable definitions and their descriptions.
//
// # Description
//
// Catalog is the engine-side store for the definition/description universe.
// Mutations go through explicit methods; every read method returns copies so
// callers can treat results as snapshots. Deleting a definition cascades to
// its description, keeping the 1:1 invariant.
//
// Not-found conditions log a warning and no-op rather than returning errors;
// malformed input is rejected up front by the Validate* functions, so by the
// time a mutation reaches the catalog the only surprises are stale ids.
//
// # Thread Safety
//
// Safe for concurrent use.
type Catalog struct {
	mu           sync.RWMutex
	definitions  map[string]VariableDefinition  // id -> definition
	descriptions map[string]VariableDescription // definition id -> description
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		definitions:  make(map[string]VariableDefinition),
		descriptions: make(map[string]VariableDescription),
	}
}

// NewDefinition mints a definition with a fresh id and timestamps.
//
// The definition is not added to any catalog; pass it to AddDefinition.
func NewDefinition(name, unit, category string) VariableDefinition {
	now := time.Now()
	return VariableDefinition{
		ID:        uuid.NewString(),
		Name:      name,
		Unit:      unit,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddDefinition inserts a definition.
//
// Outputs:
//
//	bool - False if the id or name (case-insensitive) already exists.
func (c *Catalog) AddDefinition(def VariableDefinition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.definitions[def.ID]; exists {
		slog.Warn("definition id already exists", slog.String("id", def.ID))
		return false
	}
	if c.findByNameLocked(def.Name) != nil {
		slog.Warn("definition name already exists", slog.String("name", def.Name))
		return false
	}

	c.definitions[def.ID] = def
	return true
}

// UpdateDefinition replaces the stored definition's mutable fields.
//
// # Description
//
// Re-validates name uniqueness against every other definition. Unknown ids
// log a warning and leave the catalog unchanged.
//
// Inputs:
//
//	id - The definition to update.
//	name, unit, category - Replacement values.
//
// Outputs:
//
//	bool - True if the definition was updated.
func (c *Catalog) UpdateDefinition(id, name, unit, category string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, ok := c.definitions[id]
	if !ok {
		slog.Warn("update of unknown definition", slog.String("id", id))
		return false
	}
	if other := c.findByNameLocked(name); other != nil && other.ID != id {
		slog.Warn("definition name already exists",
			slog.String("name", name),
			slog.String("conflicting_id", other.ID))
		return false
	}

	def.Name = name
	def.Unit = unit
	def.Category = category
	def.UpdatedAt = time.Now()
	c.definitions[id] = def
	return true
}

// DeleteDefinition removes a definition and cascades to its description.
//
// Unknown ids log a warning and no-op.
func (c *Catalog) DeleteDefinition(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.definitions[id]; !ok {
		slog.Warn("delete of unknown definition", slog.String("id", id))
		return false
	}

	delete(c.definitions, id)
	delete(c.descriptions, id)
	return true
}

// SetDescription upserts the description for a definition.
//
// At most one description exists per definition; a second call replaces the
// content and bumps UpdatedAt while keeping the original id and CreatedAt.
// Setting a description for an unknown definition logs and no-ops.
func (c *Catalog) SetDescription(definitionID, content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.definitions[definitionID]; !ok {
		slog.Warn("description for unknown definition",
			slog.String("definition_id", definitionID))
		return false
	}

	now := time.Now()
	if existing, ok := c.descriptions[definitionID]; ok {
		existing.Content = content
		existing.UpdatedAt = now
		c.descriptions[definitionID] = existing
		return true
	}

	c.descriptions[definitionID] = VariableDescription{
		ID:           uuid.NewString(),
		DefinitionID: definitionID,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return true
}

// DeleteDescription removes the description for a definition, if any.
func (c *Catalog) DeleteDescription(definitionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.descriptions[definitionID]; !ok {
		return false
	}
	delete(c.descriptions, definitionID)
	return true
}

// Definition returns the definition with the given id.
func (c *Catalog) Definition(id string) (VariableDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[id]
	return def, ok
}

// FindDefinitionByName returns the definition with the given name,
// compared case-insensitively.
func (c *Catalog) FindDefinitionByName(name string) (VariableDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if def := c.findByNameLocked(name); def != nil {
		return *def, true
	}
	return VariableDefinition{}, false
}

// Description returns the description for a definition id.
func (c *Catalog) Description(definitionID string) (VariableDescription, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.descriptions[definitionID]
	return desc, ok
}

// Definitions returns a snapshot of all definitions keyed by id.
func (c *Catalog) Definitions() map[string]VariableDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]VariableDefinition, len(c.definitions))
	for id, def := range c.definitions {
		out[id] = def
	}
	return out
}

// Descriptions returns a snapshot of all descriptions keyed by definition id.
func (c *Catalog) Descriptions() map[string]VariableDescription {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]VariableDescription, len(c.descriptions))
	for id, desc := range c.descriptions {
		out[id] = desc
	}
	return out
}

// findByNameLocked returns a pointer to the definition with the given name.
// Caller must hold at least a read lock.
func (c *Catalog) findByNameLocked(name string) *VariableDefinition {
	lower := strings.ToLower(strings.TrimSpace(name))
	for id := range c.definitions {
		def := c.definitions[id]
		if strings.ToLower(def.Name) == lower {
			return &def
		}
	}
	return nil
}
