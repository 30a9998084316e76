// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package summary aggregates variable quantities across the item graph.
//
// # Description
//
// The base Calculator combines an item's own variable entries with the
// recursively calculated summaries of its relationship children, scaled by
// each edge's multiplier. When an item has no relationship edges the
// calculator falls back to the item's native tree children at multiplier 1;
// the two sources are never mixed for one item, so nothing is counted
// twice. OptimizedCalculator adds content-hash keyed memoization with TTL,
// approximate-LRU eviction, dependency-based invalidation, and incremental
// recalculation.
//
// # Thread Safety
//
// Calculator and OptimizedCalculator are safe for concurrent use.
package summary

// Quantity is one aggregated variable value.
type Quantity struct {
	// Quantity is the signed aggregated amount.
	Quantity float64 `json:"quantity"`

	// Unit is the unit label, when any contributing entry carried one.
	Unit string `json:"unit,omitempty"`
}

// VariableSummary maps variable name to its aggregated quantity.
//
// Computed, never persisted. Names are merged verbatim; definitions enforce
// case-insensitive uniqueness upstream, so distinct casings do not occur in
// well-formed data.
type VariableSummary map[string]Quantity

// Clone returns an independent copy of the summary.
func (s VariableSummary) Clone() VariableSummary {
	out := make(VariableSummary, len(s))
	for name, q := range s {
		out[name] = q
	}
	return out
}

// AggregationMode selects how an item's children are discovered.
//
// The mode is resolved once per item: relationship edges when the tracker
// has any for the item, otherwise the native tree.
type AggregationMode int

const (
	// ModeNativeTree aggregates over Item.Children at multiplier 1.
	// Fallback for items predating explicit relationships.
	ModeNativeTree AggregationMode = iota

	// ModeRelationship aggregates over tracker edges with multipliers.
	ModeRelationship
)

// String returns the string representation of the AggregationMode.
func (m AggregationMode) String() string {
	switch m {
	case ModeNativeTree:
		return "native-tree"
	case ModeRelationship:
		return "relationship"
	default:
		return "unknown"
	}
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	// Hits is the number of cache hits.
	Hits int64 `json:"hits"`

	// Misses is the number of cache misses.
	Misses int64 `json:"misses"`

	// HitRate is Hits / (Hits + Misses), 0 when no lookups happened.
	HitRate float64 `json:"hitRate"`

	// Entries is the current number of cached summaries.
	Entries int `json:"entries"`

	// Evictions is the number of entries evicted for capacity or TTL.
	Evictions int64 `json:"evictions"`

	// CycleGuardTrips counts recursions cut short by the visiting-set
	// guard. Nonzero means the relationship or native-tree data contains
	// a cycle the validation layer should surface.
	CycleGuardTrips int64 `json:"cycleGuardTrips"`
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
