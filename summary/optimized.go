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
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/tally/item"
)

// OptimizedCalculator memoizes a base Calculator for large datasets.
//
// # Description
//
// Cache keys combine item id, the item's UpdatedAt (when the caller tracks
// one), and a stable hash of the item's own variable entries, so edits miss
// naturally without explicit invalidation. Each cached summary carries the
// set of item ids it was derived from; invalidating any of those ids drops
// the entry. Concurrent calculations for the same key are deduplicated with
// singleflight.
//
// Construct one per session; there is no global instance.
//
// # Thread Safety
//
// Safe for concurrent use.
type OptimizedCalculator struct {
	base  *Calculator
	cfg   Config
	cache *resultCache
	group singleflight.Group
}

// NewOptimizedCalculator wraps base with a memoizing cache.
//
// Inputs:
//
//	base - The underlying calculator. Must not be nil.
//	cfg - Cache capacity, TTL, batch size, incremental toggle. Zero-value
//	fields fall back to defaults via Validate-checked construction; pass
//	DefaultConfig() when in doubt.
func NewOptimizedCalculator(base *Calculator, cfg Config) *OptimizedCalculator {
	if cfg.MaxCacheSize <= 0 {
		cfg.MaxCacheSize = DefaultMaxCacheSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &OptimizedCalculator{
		base:  base,
		cfg:   cfg,
		cache: newResultCache(cfg.MaxCacheSize, cfg.TTL),
	}
}

// CalculateSummary returns the item's summary, from cache when possible.
//
// # Description
//
// On a fresh hit (stored, not expired) the cached summary is returned
// without touching the base calculator. On a miss the base calculates, the
// result is stored with its dependency set, and capacity eviction runs if
// needed. A missing or corrupt entry is always just a miss; this method
// never fails.
//
// Outputs:
//
//	VariableSummary - Independent copy; callers may mutate it.
func (o *OptimizedCalculator) CalculateSummary(ctx context.Context, it *item.Item, allItems map[string]*item.Item, varMap item.VariableMap) VariableSummary {
	if it == nil {
		return VariableSummary{}
	}

	ctx, span := startCalcSpan(ctx, "OptimizedCalculator.CalculateSummary", it.ID)
	defer span.End()
	start := time.Now()

	key := o.cacheKey(it, varMap)
	if cached, ok := o.cache.get(key); ok {
		recordCacheHit(ctx)
		recordCalcLatency(ctx, time.Since(start), true)
		return cached
	}
	recordCacheMiss(ctx)

	result, _, _ := o.group.Do(key, func() (any, error) {
		// The base cache is keyed by item id alone, so after a content
		// edit it still holds the pre-edit summary. Drop that entry so
		// the delegate recomputes instead of serving the stale result.
		o.base.InvalidateCache(it.ID)
		summary := o.base.CalculateSummary(ctx, it, allItems, varMap)
		deps := o.base.collectDependencies(it, allItems)
		evicted := o.cache.put(key, it.ID, HashEntries(varMap[it.ID]), summary, deps)
		recordEvictions(ctx, evicted)
		return summary, nil
	})

	recordCalcLatency(ctx, time.Since(start), false)
	return result.(VariableSummary).Clone()
}

// BatchCalculateSummaries calculates summaries for many items.
//
// # Description
//
// Processes items in fixed-size batches as a pacing mechanism for large
// datasets; semantics are identical to calling CalculateSummary per item.
//
// Outputs:
//
//	map[string]VariableSummary - Item id -> summary, one per input item.
func (o *OptimizedCalculator) BatchCalculateSummaries(ctx context.Context, items []*item.Item, allItems map[string]*item.Item, varMap item.VariableMap) map[string]VariableSummary {
	results := make(map[string]VariableSummary, len(items))

	for start := 0; start < len(items); start += o.cfg.BatchSize {
		end := start + o.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}
		for _, it := range items[start:end] {
			if it == nil {
				continue
			}
			results[it.ID] = o.CalculateSummary(ctx, it, allItems, varMap)
		}
	}

	return results
}

// IncrementalUpdate recalculates only the items affected by a change.
//
// # Description
//
// Finds items transitively dependent on changedItemID via the cached
// dependency sets - an approximation bounded by what has been calculated
// through this instance, not the full relationship graph - invalidates
// them, and recalculates just that subset. The changed item itself is
// always included. When incremental updates are disabled in configuration,
// every item in allItems is recalculated instead.
//
// Outputs:
//
//	map[string]VariableSummary - The recalculated subset.
func (o *OptimizedCalculator) IncrementalUpdate(ctx context.Context, changedItemID string, allItems map[string]*item.Item, varMap item.VariableMap) map[string]VariableSummary {
	if !o.cfg.EnableIncremental {
		slog.Debug("incremental updates disabled, recalculating all items",
			slog.String("changed_item_id", changedItemID))
		all := make([]*item.Item, 0, len(allItems))
		for _, it := range allItems {
			all = append(all, it)
		}
		o.ClearCache()
		return o.BatchCalculateSummaries(ctx, all, allItems, varMap)
	}

	affected := o.cache.dependentItems(changedItemID)
	if !containsString(affected, changedItemID) {
		affected = append(affected, changedItemID)
	}

	o.cache.invalidateItem(changedItemID)
	for _, id := range affected {
		o.base.InvalidateCache(id)
	}

	results := make(map[string]VariableSummary, len(affected))
	for _, id := range affected {
		it, ok := allItems[id]
		if !ok || it == nil {
			continue
		}
		results[id] = o.CalculateSummary(ctx, it, allItems, varMap)
	}

	slog.Debug("incremental update complete",
		slog.String("changed_item_id", changedItemID),
		slog.Int("recalculated", len(results)))
	return results
}

// InvalidateCache drops every cached summary that depends on itemID.
//
// Forwards to the base calculator's cache as well. The base cache is keyed
// by item id alone, so every dependent item's base entry is invalidated
// too, not just itemID's.
func (o *OptimizedCalculator) InvalidateCache(itemID string) {
	for _, id := range o.cache.dependentItems(itemID) {
		o.base.InvalidateCache(id)
	}
	removed := o.cache.invalidateItem(itemID)
	o.base.InvalidateCache(itemID)
	if removed > 0 {
		slog.Debug("invalidated cached summaries",
			slog.String("item_id", itemID),
			slog.Int("removed", removed))
	}
}

// ClearCache drops all cached summaries, here and in the base calculator.
func (o *OptimizedCalculator) ClearCache() {
	o.cache.clear()
	o.base.ClearCache()
}

// CacheStats returns the optimized cache's counters. Cycle guard trips are
// taken from the base calculator, which owns the recursion.
func (o *OptimizedCalculator) CacheStats() CacheStats {
	stats := o.cache.stats()
	stats.CycleGuardTrips = o.base.CacheStats().CycleGuardTrips
	return stats
}

// cacheKey builds the composite key: id, content version, entry hash.
func (o *OptimizedCalculator) cacheKey(it *item.Item, varMap item.VariableMap) string {
	version := int64(0)
	if !it.UpdatedAt.IsZero() {
		version = it.UpdatedAt.UnixNano()
	}
	return fmt.Sprintf("%s@%d#%s", it.ID, version, HashEntries(varMap[it.ID]))
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
