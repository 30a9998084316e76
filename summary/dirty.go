// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package summary

import (
	"context"
	"sync"
	"time"

	"github.com/AleutianAI/tally/item"
)

// DirtyEntry contains metadata about a changed item.
type DirtyEntry struct {
	// ItemID is the changed item.
	ItemID string

	// MarkedAt is when the change was recorded.
	MarkedAt time.Time

	// Source indicates what reported the change ("editor", "import",
	// "manual").
	Source string
}

// DirtyTracker collects changed item ids between recalculations.
//
// # Description
//
// UI event handlers mark items as they change; FlushIncremental later runs
// one incremental update per changed item and clears the set. This batches
// invalidation work instead of recalculating on every keystroke.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type DirtyTracker struct {
	mu      sync.RWMutex
	dirty   map[string]DirtyEntry
	enabled bool
}

// NewDirtyTracker creates a tracker with tracking enabled.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{
		dirty:   make(map[string]DirtyEntry),
		enabled: true,
	}
}

// MarkChanged records an item change from an unspecified source.
func (d *DirtyTracker) MarkChanged(itemID string) {
	d.MarkChangedWithSource(itemID, "manual")
}

// MarkChangedWithSource records an item change with its source.
func (d *DirtyTracker) MarkChangedWithSource(itemID, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.enabled {
		return
	}

	d.dirty[itemID] = DirtyEntry{
		ItemID:   itemID,
		MarkedAt: time.Now(),
		Source:   source,
	}
}

// HasDirty returns true if any items are marked changed.
func (d *DirtyTracker) HasDirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.dirty) > 0
}

// Count returns the number of changed items.
func (d *DirtyTracker) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.dirty)
}

// ChangedItems returns the changed item ids without clearing them.
func (d *DirtyTracker) ChangedItems() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.dirty))
	for id := range d.dirty {
		ids = append(ids, id)
	}
	return ids
}

// ClearAll empties the dirty set and returns how many entries it held.
func (d *DirtyTracker) ClearAll() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := len(d.dirty)
	d.dirty = make(map[string]DirtyEntry)
	return count
}

// Enable turns tracking on.
func (d *DirtyTracker) Enable() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = true
}

// Disable turns tracking off; MarkChanged calls become no-ops.
func (d *DirtyTracker) Disable() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = false
}

// FlushIncremental recalculates everything affected by the dirty set.
//
// # Description
//
// Runs calc.IncrementalUpdate for each changed item, merges the results,
// and clears the flushed ids. Items marked while the flush is running stay
// in the set for the next flush.
//
// Outputs:
//
//	map[string]VariableSummary - Every summary recalculated by this flush.
func (d *DirtyTracker) FlushIncremental(ctx context.Context, calc *OptimizedCalculator, allItems map[string]*item.Item, varMap item.VariableMap) map[string]VariableSummary {
	changed := d.ChangedItems()
	results := make(map[string]VariableSummary)

	for _, id := range changed {
		for itemID, s := range calc.IncrementalUpdate(ctx, id, allItems, varMap) {
			results[itemID] = s
		}
	}

	d.mu.Lock()
	for _, id := range changed {
		delete(d.dirty, id)
	}
	d.mu.Unlock()

	return results
}
