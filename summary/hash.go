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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/AleutianAI/tally/item"
)

// HashEntries computes a stable content hash of an item's variable entries.
//
// # Description
//
// Entries are sorted by name, unit, category, then quantity before hashing,
// so the hash is independent of input order. Used as the content-version
// component of optimized cache keys: editing any entry changes the hash and
// naturally misses the stale cached summary.
//
// Outputs:
//
//	string - Full SHA-256 hex digest (64 chars). Stable across processes.
func HashEntries(entries []item.VariableEntry) string {
	sorted := make([]item.VariableEntry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Quantity < b.Quantity
	})

	h := sha256.New()
	for _, e := range sorted {
		fmt.Fprintf(h, "%s|%g|%s|%s\n", e.Name, e.Quantity, e.Unit, e.Category)
	}
	return hex.EncodeToString(h.Sum(nil))
}
