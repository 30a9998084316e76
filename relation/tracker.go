// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relation

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/AleutianAI/tally/item"
)

// edge is the stored form of one relationship.
type edge struct {
	parentID   string
	childID    string
	multiplier float64
}

// Tracker maintains the bidirectional relationship adjacency.
//
// # Description
//
// Keeps children-of and parents-of adjacency in lockstep plus an id index
// for removal. CreateRelationship rejects edges that would close a cycle,
// so the parent -> child graph stays a DAG as long as all edges enter
// through this type.
//
// # Thread Safety
//
// Safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	children map[string][]ChildLink  // parent id -> outgoing edges
	parents  map[string][]ParentLink // child id -> incoming edges
	byID     map[string]edge         // relationship id -> edge
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		children: make(map[string][]ChildLink),
		parents:  make(map[string][]ParentLink),
		byID:     make(map[string]edge),
	}
}

// CreateRelationship inserts a parent -> child edge.
//
// # Description
//
// The edge is rejected when the id is taken, when parent and child are the
// same item, or when the parent is already reachable from the child (which
// would close a cycle). The reachability check walks the current
// parent -> child adjacency, so it is exact for single-edge inserts.
//
// Inputs:
//
//	relationshipID - Unique id for the edge.
//	parentID, childID - The items being connected.
//	multiplier - Scale applied to the child's contribution.
//
// Outputs:
//
//	error - Nil on success; wraps ErrDuplicateRelationship,
//	ErrSelfReference, ErrCycle, or ErrEmptyID on rejection.
//
// Thread Safety: Safe for concurrent use.
func (t *Tracker) CreateRelationship(relationshipID, parentID, childID string, multiplier float64) error {
	if relationshipID == "" || parentID == "" || childID == "" {
		return fmt.Errorf("create relationship: %w", ErrEmptyID)
	}
	if parentID == childID {
		return fmt.Errorf("create relationship %s: %w", relationshipID, ErrSelfReference)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[relationshipID]; exists {
		return fmt.Errorf("create relationship %s: %w", relationshipID, ErrDuplicateRelationship)
	}
	if t.reachableLocked(childID, parentID) {
		return fmt.Errorf("create relationship %s (%s -> %s): %w",
			relationshipID, parentID, childID, ErrCycle)
	}

	t.byID[relationshipID] = edge{parentID: parentID, childID: childID, multiplier: multiplier}
	t.children[parentID] = append(t.children[parentID], ChildLink{
		RelationshipID: relationshipID,
		ChildID:        childID,
		Multiplier:     multiplier,
	})
	t.parents[childID] = append(t.parents[childID], ParentLink{
		RelationshipID: relationshipID,
		ParentID:       parentID,
		Multiplier:     multiplier,
	})

	return nil
}

// RemoveRelationship deletes an edge by id.
//
// Outputs:
//
//	bool - True if an edge was removed.
func (t *Tracker) RemoveRelationship(relationshipID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.byID[relationshipID]
	if !ok {
		return false
	}
	delete(t.byID, relationshipID)

	t.children[e.parentID] = removeChildLink(t.children[e.parentID], relationshipID)
	if len(t.children[e.parentID]) == 0 {
		delete(t.children, e.parentID)
	}
	t.parents[e.childID] = removeParentLink(t.parents[e.childID], relationshipID)
	if len(t.parents[e.childID]) == 0 {
		delete(t.parents, e.childID)
	}

	return true
}

// ChildRelationships returns the outgoing edges of an item.
//
// The slice is a copy in insertion order; callers may mutate it freely.
func (t *Tracker) ChildRelationships(parentID string) []ChildLink {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ChildLink, len(t.children[parentID]))
	copy(out, t.children[parentID])
	return out
}

// ParentRelationships returns the incoming edges of an item.
func (t *Tracker) ParentRelationships(childID string) []ParentLink {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ParentLink, len(t.parents[childID]))
	copy(out, t.parents[childID])
	return out
}

// HasChildren reports whether the item has any outgoing edges.
func (t *Tracker) HasChildren(parentID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.children[parentID]) > 0
}

// Count returns the number of edges.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// Clear removes all edges.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.children = make(map[string][]ChildLink)
	t.parents = make(map[string][]ParentLink)
	t.byID = make(map[string]edge)
}

// InitializeFromItems bootstraps relationships from native parent refs.
//
// # Description
//
// Scans each item's Parents array; every ref carrying a RelationshipID
// becomes a parent -> item edge with DefaultMultiplier, skipping ids that
// already exist. This is how the tracker picks up a pre-existing hierarchy
// without per-edge setup calls.
//
// Refs rejected by the cycle gate are logged and skipped rather than
// failing the whole scan.
//
// Inputs:
//
//	items - The item universe.
//
// Outputs:
//
//	int - Number of relationships created.
func (t *Tracker) InitializeFromItems(items []*item.Item) int {
	created := 0
	for _, it := range items {
		if it == nil {
			continue
		}
		for _, ref := range it.Parents {
			if ref.RelationshipID == "" {
				continue
			}
			if t.hasRelationship(ref.RelationshipID) {
				continue
			}
			if err := t.CreateRelationship(ref.RelationshipID, ref.ID, it.ID, DefaultMultiplier); err != nil {
				slog.Warn("skipping native parent ref",
					slog.String("relationship_id", ref.RelationshipID),
					slog.String("parent_id", ref.ID),
					slog.String("child_id", it.ID),
					slog.String("reason", err.Error()))
				continue
			}
			created++
		}
	}
	return created
}

// ValidateRelationships re-scans the whole graph for cycles.
//
// # Description
//
// Health check, not a gate: counts back edges found by DFS with a recursion
// stack over the full parent -> child adjacency. With all edges inserted
// through CreateRelationship the count is always zero; nonzero indicates
// corrupt bulk-loaded state.
//
// Outputs:
//
//	ValidationReport - Totals; OrphanedRelationships is always zero here.
func (t *Tracker) ValidateRelationships() ValidationReport {
	t.mu.RLock()
	defer t.mu.RUnlock()

	const (
		white = iota
		gray
		black
	)

	state := make(map[string]int, len(t.children))
	cycles := 0

	var visit func(id string)
	visit = func(id string) {
		state[id] = gray
		for _, link := range t.children[id] {
			switch state[link.ChildID] {
			case gray:
				cycles++
			case white:
				visit(link.ChildID)
			}
		}
		state[id] = black
	}

	for id := range t.children {
		if state[id] == white {
			visit(id)
		}
	}

	return ValidationReport{
		TotalRelationships: len(t.byID),
		CircularReferences: cycles,
	}
}

// ValidateAgainstItems extends ValidateRelationships with orphan detection.
//
// An edge is orphaned when either endpoint is missing from items.
func (t *Tracker) ValidateAgainstItems(items map[string]*item.Item) ValidationReport {
	report := t.ValidateRelationships()

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, e := range t.byID {
		if _, ok := items[e.parentID]; !ok {
			report.OrphanedRelationships++
			continue
		}
		if _, ok := items[e.childID]; !ok {
			report.OrphanedRelationships++
		}
	}
	return report
}

// reachableLocked reports whether target is reachable from start over
// parent -> child edges. Caller must hold the lock.
func (t *Tracker) reachableLocked(start, target string) bool {
	if start == target {
		return true
	}

	visited := map[string]struct{}{start: {}}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, link := range t.children[current] {
			if link.ChildID == target {
				return true
			}
			if _, seen := visited[link.ChildID]; seen {
				continue
			}
			visited[link.ChildID] = struct{}{}
			queue = append(queue, link.ChildID)
		}
	}

	return false
}

func (t *Tracker) hasRelationship(relationshipID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byID[relationshipID]
	return ok
}

func removeChildLink(links []ChildLink, relationshipID string) []ChildLink {
	for i, l := range links {
		if l.RelationshipID == relationshipID {
			return append(links[:i], links[i+1:]...)
		}
	}
	return links
}

func removeParentLink(links []ParentLink, relationshipID string) []ParentLink {
	for i, l := range links {
		if l.RelationshipID == relationshipID {
			return append(links[:i], links[i+1:]...)
		}
	}
	return links
}
