// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package links

import (
	"sort"
	"strings"
)

// DefaultMaxSuggestions is the suggestion count used when max <= 0.
const DefaultMaxSuggestions = 3

// GenerateVariableNameSuggestions suggests close matches for a broken link.
//
// # Description
//
// Ranks availableNames by Levenshtein distance to input (both lowercased).
// A candidate qualifies when its distance is at most max(2, 30% of the
// input length), so short inputs get a slack of two edits and long inputs
// tolerate proportionally more. Results are sorted ascending by distance;
// ties keep the input order of availableNames.
//
// Inputs:
//
//	input - The unresolved name.
//	availableNames - Candidate definition names.
//	max - Maximum suggestions to return; <= 0 means DefaultMaxSuggestions.
//
// Outputs:
//
//	[]string - At most max names, best first. Empty slice if none qualify.
func GenerateVariableNameSuggestions(input string, availableNames []string, max int) []string {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}

	needle := strings.ToLower(strings.TrimSpace(input))
	threshold := len(needle) * 3 / 10
	if threshold < 2 {
		threshold = 2
	}

	type scored struct {
		name     string
		distance int
		order    int
	}

	candidates := []scored{}
	for i, name := range availableNames {
		dist := levenshteinDistance(needle, strings.ToLower(name))
		if dist <= threshold {
			candidates = append(candidates, scored{name: name, distance: dist, order: i})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].order < candidates[j].order
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}

	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.name)
	}
	return suggestions
}

// levenshteinDistance calculates the edit distance between two strings.
//
// Uses two rows instead of the full matrix for O(min(m,n)) space.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Ensure b is the shorter string for space optimization
	if len(a) < len(b) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
