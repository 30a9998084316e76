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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVariableNameSuggestions_ClosestFirst(t *testing.T) {
	suggestions := GenerateVariableNameSuggestions("egss", []string{"eggs", "flour", "sugar"}, 3)

	require.NotEmpty(t, suggestions)
	assert.Equal(t, "eggs", suggestions[0], "distance 1 beats everything else")
	assert.NotContains(t, suggestions, "flour", "beyond the distance threshold")
}

func TestGenerateVariableNameSuggestions_Threshold(t *testing.T) {
	// Short inputs still get a slack of two edits.
	suggestions := GenerateVariableNameSuggestions("ab", []string{"abcd", "abcde"}, 3)
	assert.Equal(t, []string{"abcd"}, suggestions)

	// Long inputs tolerate ~30% of their length.
	long := "a_fairly_long_variable_name"
	assert.NotEmpty(t, GenerateVariableNameSuggestions(long, []string{"a_fairly_long_variable_nome"}, 3))
}

func TestGenerateVariableNameSuggestions_MaxAndTies(t *testing.T) {
	candidates := []string{"aa", "ab", "ac", "ad"}

	suggestions := GenerateVariableNameSuggestions("a", candidates, 2)
	require.Len(t, suggestions, 2)
	assert.Equal(t, []string{"aa", "ab"}, suggestions,
		"equal distances keep candidate input order")

	// max <= 0 falls back to the default of three.
	assert.Len(t, GenerateVariableNameSuggestions("a", candidates, 0), DefaultMaxSuggestions)
}

func TestGenerateVariableNameSuggestions_NoMatches(t *testing.T) {
	suggestions := GenerateVariableNameSuggestions("zzz", []string{"flour", "sugar"}, 3)
	assert.Empty(t, suggestions)
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"egss", "eggs", 1},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b),
			"distance(%q, %q)", tt.a, tt.b)
	}
}
