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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/tally/item"
	"github.com/AleutianAI/tally/relation"
)

// newOptimized builds an optimized calculator over a fresh tracker.
func newOptimized(t *testing.T, cfg Config) (*OptimizedCalculator, *relation.Tracker) {
	t.Helper()

	tracker := relation.NewTracker()
	return NewOptimizedCalculator(NewCalculator(tracker), cfg), tracker
}

func TestOptimized_CacheHit(t *testing.T) {
	calc, tracker := newOptimized(t, DefaultConfig())
	require.NoError(t, tracker.CreateRelationship("r1", "p", "c", 2))

	parent := &item.Item{ID: "p"}
	child := &item.Item{ID: "c"}
	all := universe(t, parent, child)
	varMap := item.VariableMap{"c": {{Name: "x", Quantity: 3}}}

	ctx := context.Background()
	first := calc.CalculateSummary(ctx, parent, all, varMap)
	second := calc.CalculateSummary(ctx, parent, all, varMap)

	assert.Equal(t, first, second)
	stats := calc.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestOptimized_ContentChangeMisses(t *testing.T) {
	calc, _ := newOptimized(t, DefaultConfig())

	it := &item.Item{ID: "a"}
	all := universe(t, it)

	ctx := context.Background()
	got := calc.CalculateSummary(ctx, it, all, item.VariableMap{"a": {{Name: "x", Quantity: 1}}})
	assert.Equal(t, 1.0, got["x"].Quantity)

	// Editing the item's own entries changes the content hash, so the
	// stale entry is bypassed without any explicit invalidation. The base
	// calculator's id-keyed entry must not leak through either.
	got = calc.CalculateSummary(ctx, it, all, item.VariableMap{"a": {{Name: "x", Quantity: 5}}})
	assert.Equal(t, 5.0, got["x"].Quantity,
		"edit is picked up without invalidation")
	assert.Equal(t, int64(2), calc.CacheStats().Misses)
}

func TestOptimized_InvalidateDependents(t *testing.T) {
	calc, tracker := newOptimized(t, DefaultConfig())
	require.NoError(t, tracker.CreateRelationship("r1", "p", "c", 2))

	parent := &item.Item{ID: "p"}
	child := &item.Item{ID: "c"}
	all := universe(t, parent, child)

	ctx := context.Background()
	varMap := item.VariableMap{"c": {{Name: "x", Quantity: 3}}}
	got := calc.CalculateSummary(ctx, parent, all, varMap)
	require.Equal(t, 6.0, got["x"].Quantity)

	// Changing the child invalidates the parent's entry through the
	// dependency set; p's own key is unchanged, so without invalidation
	// this would return the stale 6.
	varMap["c"] = []item.VariableEntry{{Name: "x", Quantity: 10}}
	calc.InvalidateCache("c")

	got = calc.CalculateSummary(ctx, parent, all, varMap)
	assert.Equal(t, 20.0, got["x"].Quantity)
}

func TestOptimized_IncrementalUpdate(t *testing.T) {
	calc, tracker := newOptimized(t, DefaultConfig())
	require.NoError(t, tracker.CreateRelationship("r1", "p", "c", 2))

	parent := &item.Item{ID: "p"}
	child := &item.Item{ID: "c"}
	unrelated := &item.Item{ID: "z"}
	all := universe(t, parent, child, unrelated)

	ctx := context.Background()
	varMap := item.VariableMap{
		"c": {{Name: "x", Quantity: 3}},
		"z": {{Name: "y", Quantity: 1}},
	}
	calc.BatchCalculateSummaries(ctx, []*item.Item{parent, child, unrelated}, all, varMap)

	varMap["c"] = []item.VariableEntry{{Name: "x", Quantity: 4}}
	updated := calc.IncrementalUpdate(ctx, "c", all, varMap)

	require.Contains(t, updated, "p")
	require.Contains(t, updated, "c")
	assert.NotContains(t, updated, "z", "unaffected items are not recalculated")
	assert.Equal(t, 8.0, updated["p"]["x"].Quantity)
	assert.Equal(t, 4.0, updated["c"]["x"].Quantity)
}

func TestOptimized_IncrementalDisabledRecalculatesAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableIncremental = false
	calc, _ := newOptimized(t, cfg)

	a := &item.Item{ID: "a"}
	b := &item.Item{ID: "b"}
	all := universe(t, a, b)
	varMap := item.VariableMap{
		"a": {{Name: "x", Quantity: 1}},
		"b": {{Name: "y", Quantity: 2}},
	}

	updated := calc.IncrementalUpdate(context.Background(), "a", all, varMap)
	assert.Len(t, updated, 2, "full recalculation covers every item")
}

func TestOptimized_TTLExpiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = time.Nanosecond
	calc, _ := newOptimized(t, cfg)

	it := &item.Item{ID: "a"}
	all := universe(t, it)
	varMap := item.VariableMap{"a": {{Name: "x", Quantity: 1}}}

	ctx := context.Background()
	calc.CalculateSummary(ctx, it, all, varMap)
	time.Sleep(time.Millisecond)
	calc.CalculateSummary(ctx, it, all, varMap)

	stats := calc.CacheStats()
	assert.Equal(t, int64(2), stats.Misses, "expired entries are misses")
	assert.Zero(t, stats.Hits)
}

func TestOptimized_EvictsOldestQuarter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCacheSize = 4
	calc, _ := newOptimized(t, cfg)

	ctx := context.Background()
	varMap := item.VariableMap{}
	items := []*item.Item{}
	for i := 0; i < 5; i++ {
		it := &item.Item{ID: fmt.Sprintf("item-%d", i)}
		items = append(items, it)
		varMap[it.ID] = []item.VariableEntry{{Name: "x", Quantity: float64(i)}}
	}
	all := universe(t, items...)

	for _, it := range items {
		calc.CalculateSummary(ctx, it, all, varMap)
	}

	stats := calc.CacheStats()
	assert.LessOrEqual(t, stats.Entries, 4)
	assert.Positive(t, stats.Evictions)
}

func TestOptimized_BatchMatchesPerItem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	calc, tracker := newOptimized(t, cfg)
	require.NoError(t, tracker.CreateRelationship("r1", "p", "c", 3))

	parent := &item.Item{ID: "p"}
	child := &item.Item{ID: "c"}
	other := &item.Item{ID: "o"}
	all := universe(t, parent, child, other)
	varMap := item.VariableMap{
		"c": {{Name: "x", Quantity: 2}},
		"o": {{Name: "y", Quantity: 5, Unit: "kg"}},
	}

	results := calc.BatchCalculateSummaries(context.Background(),
		[]*item.Item{parent, child, other, nil}, all, varMap)

	require.Len(t, results, 3)
	assert.Equal(t, 6.0, results["p"]["x"].Quantity)
	assert.Equal(t, 2.0, results["c"]["x"].Quantity)
	assert.Equal(t, Quantity{Quantity: 5, Unit: "kg"}, results["o"]["y"])
}

func TestDirtyTracker_FlushIncremental(t *testing.T) {
	calc, tracker := newOptimized(t, DefaultConfig())
	require.NoError(t, tracker.CreateRelationship("r1", "p", "c", 1))

	parent := &item.Item{ID: "p"}
	child := &item.Item{ID: "c"}
	all := universe(t, parent, child)
	varMap := item.VariableMap{"c": {{Name: "x", Quantity: 2}}}

	ctx := context.Background()
	calc.CalculateSummary(ctx, parent, all, varMap)

	dirty := NewDirtyTracker()
	dirty.MarkChangedWithSource("c", "editor")
	require.True(t, dirty.HasDirty())
	require.Equal(t, 1, dirty.Count())

	varMap["c"] = []item.VariableEntry{{Name: "x", Quantity: 9}}
	results := dirty.FlushIncremental(ctx, calc, all, varMap)

	assert.Equal(t, 9.0, results["p"]["x"].Quantity)
	assert.False(t, dirty.HasDirty(), "flushed ids are cleared")
}

func TestDirtyTracker_Disable(t *testing.T) {
	dirty := NewDirtyTracker()
	dirty.Disable()
	dirty.MarkChanged("a")
	assert.False(t, dirty.HasDirty())

	dirty.Enable()
	dirty.MarkChanged("a")
	assert.Equal(t, []string{"a"}, dirty.ChangedItems())
	assert.Equal(t, 1, dirty.ClearAll())
}
