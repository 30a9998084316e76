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
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AleutianAI/tally/item"
	"github.com/AleutianAI/tally/relation"
)

// Calculator computes variable summaries by walking the relationship graph.
//
// # Description
//
// Keeps a simple per-item-id cache invalidated only by explicit
// InvalidateCache/ClearCache calls; callers who need content-aware
// invalidation should wrap it in an OptimizedCalculator. Construct one
// calculator per session so cache lifetime is explicit.
//
// # Thread Safety
//
// Safe for concurrent use.
type Calculator struct {
	tracker *relation.Tracker

	mu    sync.RWMutex
	cache map[string]VariableSummary

	hits       atomic.Int64
	misses     atomic.Int64
	cycleTrips atomic.Int64
}

// NewCalculator creates a calculator reading edges from tracker.
func NewCalculator(tracker *relation.Tracker) *Calculator {
	return &Calculator{
		tracker: tracker,
		cache:   make(map[string]VariableSummary),
	}
}

// CalculateSummary computes the aggregated variable summary for an item.
//
// # Description
//
// Starts from the item's own entries in varMap (duplicate names within the
// item are summed; the first unit seen wins), then merges each relationship
// child's summary scaled by the edge multiplier. Items without relationship
// edges fall back to native tree children at multiplier 1; see
// AggregationModeFor.
//
// A visiting set guards against cycles: revisiting an item mid-calculation
// contributes nothing instead of recursing forever. Guard trips are counted
// in CacheStats so the validation layer can surface them.
//
// Deterministic and side-effect free for fixed inputs, apart from the
// internal cache.
//
// Inputs:
//
//	ctx - Context for tracing. Calculation itself never blocks.
//	it - The item to summarize. Nil yields an empty summary.
//	allItems - The full item universe, keyed by id.
//	varMap - Item id -> that item's own variable entries.
//
// Outputs:
//
//	VariableSummary - Name -> aggregated quantity. Never nil.
func (c *Calculator) CalculateSummary(ctx context.Context, it *item.Item, allItems map[string]*item.Item, varMap item.VariableMap) VariableSummary {
	if it == nil {
		return VariableSummary{}
	}

	ctx, span := startCalcSpan(ctx, "CalculateSummary", it.ID)
	defer span.End()
	start := time.Now()

	c.mu.RLock()
	cached, ok := c.cache[it.ID]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		recordCalcLatency(ctx, time.Since(start), true)
		return cached.Clone()
	}
	c.misses.Add(1)

	visiting := make(map[string]struct{})
	result := c.calculate(it, allItems, varMap, visiting)

	c.mu.Lock()
	c.cache[it.ID] = result.Clone()
	c.mu.Unlock()

	recordCalcLatency(ctx, time.Since(start), false)
	return result
}

// AggregationModeFor resolves how an item's children are discovered.
//
// ModeRelationship when the tracker has edges for the item, otherwise
// ModeNativeTree. Resolved once per item per calculation so relationship
// edges and native containment are never mixed (and never double-counted)
// for the same item.
func (c *Calculator) AggregationModeFor(itemID string) AggregationMode {
	if c.tracker != nil && c.tracker.HasChildren(itemID) {
		return ModeRelationship
	}
	return ModeNativeTree
}

// InvalidateCache drops the cached summary for one item.
func (c *Calculator) InvalidateCache(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, itemID)
}

// ClearCache drops all cached summaries.
func (c *Calculator) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]VariableSummary)
}

// CacheStats returns hit/miss counters for the simple cache.
func (c *Calculator) CacheStats() CacheStats {
	c.mu.RLock()
	entries := len(c.cache)
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	return CacheStats{
		Hits:            hits,
		Misses:          misses,
		HitRate:         hitRate(hits, misses),
		Entries:         entries,
		CycleGuardTrips: c.cycleTrips.Load(),
	}
}

// calculate performs the recursive aggregation.
func (c *Calculator) calculate(it *item.Item, allItems map[string]*item.Item, varMap item.VariableMap, visiting map[string]struct{}) VariableSummary {
	if _, active := visiting[it.ID]; active {
		c.cycleTrips.Add(1)
		slog.Debug("cycle guard tripped", slog.String("item_id", it.ID))
		return VariableSummary{}
	}
	visiting[it.ID] = struct{}{}
	defer delete(visiting, it.ID)

	result := directSummary(varMap[it.ID])

	switch c.AggregationModeFor(it.ID) {
	case ModeRelationship:
		for _, link := range c.tracker.ChildRelationships(it.ID) {
			child, ok := allItems[link.ChildID]
			if !ok || child == nil {
				slog.Warn("relationship child not in item universe",
					slog.String("relationship_id", link.RelationshipID),
					slog.String("child_id", link.ChildID))
				continue
			}
			mergeScaled(result, c.calculate(child, allItems, varMap, visiting), link.Multiplier)
		}
	case ModeNativeTree:
		for _, ref := range it.Children {
			child, ok := allItems[ref.ID]
			if !ok || child == nil {
				continue
			}
			mergeScaled(result, c.calculate(child, allItems, varMap, visiting), 1)
		}
	}

	return result
}

// collectDependencies returns every item id whose variables can influence
// the item's summary, including it.ID itself. Used by OptimizedCalculator to seed
// cache dependency sets. Cycle-guarded like calculate.
func (c *Calculator) collectDependencies(it *item.Item, allItems map[string]*item.Item) map[string]struct{} {
	deps := make(map[string]struct{})
	c.collectDeps(it, allItems, deps)
	return deps
}

func (c *Calculator) collectDeps(it *item.Item, allItems map[string]*item.Item, deps map[string]struct{}) {
	if _, seen := deps[it.ID]; seen {
		return
	}
	deps[it.ID] = struct{}{}

	switch c.AggregationModeFor(it.ID) {
	case ModeRelationship:
		for _, link := range c.tracker.ChildRelationships(it.ID) {
			if child, ok := allItems[link.ChildID]; ok && child != nil {
				c.collectDeps(child, allItems, deps)
			}
		}
	case ModeNativeTree:
		for _, ref := range it.Children {
			if child, ok := allItems[ref.ID]; ok && child != nil {
				c.collectDeps(child, allItems, deps)
			}
		}
	}
}

// directSummary converts an item's own entries to summary form.
//
// Duplicate names sum; the first non-empty unit wins.
func directSummary(entries []item.VariableEntry) VariableSummary {
	result := make(VariableSummary, len(entries))
	for _, e := range entries {
		q := result[e.Name]
		q.Quantity += e.Quantity
		if q.Unit == "" {
			q.Unit = e.Unit
		}
		result[e.Name] = q
	}
	return result
}

// mergeScaled merges src into dst with every quantity scaled by multiplier.
//
// Quantities sum per name. Units: dst keeps its unit when it has one, so
// direct entries (merged first) take precedence over inherited ones, and
// the first inherited unit wins after that.
func mergeScaled(dst, src VariableSummary, multiplier float64) {
	for name, q := range src {
		merged := dst[name]
		merged.Quantity += q.Quantity * multiplier
		if merged.Unit == "" {
			merged.Unit = q.Unit
		}
		dst[name] = merged
	}
}
