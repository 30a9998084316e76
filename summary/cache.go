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
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// cacheEntry is one memoized summary with its bookkeeping.
type cacheEntry struct {
	// result is the stored summary. Cloned on the way out.
	result VariableSummary

	// itemID is the item this summary belongs to.
	itemID string

	// dependencies holds every item id that can influence result,
	// including itemID itself.
	dependencies map[string]struct{}

	// hash is the content hash of the item's own entries at store time.
	hash string

	// timestamp is when the entry was stored. TTL expiry keys off this.
	timestamp time.Time

	// accessCount and lastAccessed drive approximate-LRU eviction.
	accessCount  int64
	lastAccessed time.Time
}

// resultCache is the content-hash keyed store behind OptimizedCalculator.
//
// # Description
//
// Entries are keyed by a composite of item id, content version, and entry
// hash. Expiry is lazy (checked on get). When capacity would be exceeded
// the oldest 25% of entries by last access are evicted in one sweep, an
// approximate LRU that avoids per-access list maintenance.
//
// # Thread Safety
//
// Safe for concurrent use.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
	ttl     time.Duration

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func newResultCache(maxSize int, ttl time.Duration) *resultCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxCacheSize
	}
	return &resultCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// get returns the cached summary for key, honoring TTL.
func (rc *resultCache) get(key string) (VariableSummary, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	entry, ok := rc.entries[key]
	if !ok {
		rc.misses.Add(1)
		return nil, false
	}

	if rc.ttl > 0 && time.Since(entry.timestamp) > rc.ttl {
		delete(rc.entries, key)
		rc.evictions.Add(1)
		rc.misses.Add(1)
		return nil, false
	}

	entry.accessCount++
	entry.lastAccessed = time.Now()
	rc.hits.Add(1)
	return entry.result.Clone(), true
}

// put stores a summary, evicting first if the cache is full.
//
// Returns the number of entries evicted to make room.
func (rc *resultCache) put(key, itemID, hash string, result VariableSummary, dependencies map[string]struct{}) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	evicted := 0
	if _, exists := rc.entries[key]; !exists && len(rc.entries) >= rc.maxSize {
		evicted = rc.evictOldestLocked()
	}

	now := time.Now()
	rc.entries[key] = &cacheEntry{
		result:       result.Clone(),
		itemID:       itemID,
		dependencies: dependencies,
		hash:         hash,
		timestamp:    now,
		lastAccessed: now,
	}
	return evicted
}

// invalidateItem removes every entry whose dependency set contains itemID.
//
// Dependency sets always include the entry's own item id, so invalidating
// an item always drops its own cached summary too.
func (rc *resultCache) invalidateItem(itemID string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	removed := 0
	for key, entry := range rc.entries {
		if _, depends := entry.dependencies[itemID]; depends {
			delete(rc.entries, key)
			removed++
		}
	}
	return removed
}

// dependentItems returns the item ids of cached entries that depend on
// itemID (the item itself included, when cached).
func (rc *resultCache) dependentItems(itemID string) []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	seen := make(map[string]struct{})
	ids := []string{}
	for _, entry := range rc.entries {
		if _, depends := entry.dependencies[itemID]; !depends {
			continue
		}
		if _, dup := seen[entry.itemID]; dup {
			continue
		}
		seen[entry.itemID] = struct{}{}
		ids = append(ids, entry.itemID)
	}

	sort.Strings(ids)
	return ids
}

// clear removes all entries.
func (rc *resultCache) clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[string]*cacheEntry)
}

// len returns the number of cached entries.
func (rc *resultCache) len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// evictOldestLocked evicts the oldest quarter of entries by last access.
// Caller must hold the lock.
func (rc *resultCache) evictOldestLocked() int {
	type aged struct {
		key          string
		lastAccessed time.Time
	}

	all := make([]aged, 0, len(rc.entries))
	for key, entry := range rc.entries {
		all = append(all, aged{key: key, lastAccessed: entry.lastAccessed})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].lastAccessed.Before(all[j].lastAccessed)
	})

	target := rc.maxSize / 4
	if target < 1 {
		target = 1
	}
	if target > len(all) {
		target = len(all)
	}

	for _, a := range all[:target] {
		delete(rc.entries, a.key)
	}
	rc.evictions.Add(int64(target))
	return target
}

// stats snapshots the cache counters.
func (rc *resultCache) stats() CacheStats {
	rc.mu.Lock()
	entries := len(rc.entries)
	rc.mu.Unlock()

	hits := rc.hits.Load()
	misses := rc.misses.Load()
	return CacheStats{
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate(hits, misses),
		Entries:   entries,
		Evictions: rc.evictions.Load(),
	}
}
