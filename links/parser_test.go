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

	"github.com/AleutianAI/tally/item"
)

// testDefinitions builds a definition universe for parser tests.
func testDefinitions(t *testing.T, names ...string) map[string]item.VariableDefinition {
	t.Helper()

	defs := make(map[string]item.VariableDefinition, len(names))
	for _, name := range names {
		id := "def-" + name
		defs[id] = item.VariableDefinition{ID: id, Name: name}
	}
	return defs
}

func TestParseVariableLinks_RoundTrip(t *testing.T) {
	defs := testDefinitions(t, "eggs")

	matches := ParseVariableLinks("uses [eggs] and [bogus]", defs)
	require.Len(t, matches, 2)

	assert.True(t, matches[0].IsValid)
	assert.Equal(t, "def-eggs", matches[0].DefinitionID)
	assert.Equal(t, "eggs", matches[0].Text)
	assert.Equal(t, "[eggs]", matches[0].FullMatch)
	assert.Equal(t, Position{Start: 5, End: 11}, matches[0].Position)

	assert.False(t, matches[1].IsValid)
	assert.Empty(t, matches[1].DefinitionID)
	assert.Equal(t, Position{Start: 16, End: 23}, matches[1].Position)
}

func TestParseVariableLinks_CaseInsensitive(t *testing.T) {
	defs := testDefinitions(t, "Flour")

	matches := ParseVariableLinks("[FLOUR] and [ flour ]", defs)
	require.Len(t, matches, 2)
	assert.True(t, matches[0].IsValid)
	assert.True(t, matches[1].IsValid, "names are trimmed before lookup")
}

func TestParseVariableLinks_EdgeCases(t *testing.T) {
	defs := testDefinitions(t, "eggs")

	tests := []struct {
		name    string
		text    string
		matches int
	}{
		{name: "empty text", text: "", matches: 0},
		{name: "no brackets", text: "plain text", matches: 0},
		{name: "empty brackets", text: "[]", matches: 1},
		{name: "unterminated bracket", text: "uses [eggs", matches: 0},
		{name: "stray close", text: "eggs] here", matches: 0},
		{name: "nested open closes inner", text: "[a[eggs]", matches: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ParseVariableLinks(tt.text, defs), tt.matches)
		})
	}
}

func TestParseVariableLinks_NestedOpenResolvesInner(t *testing.T) {
	defs := testDefinitions(t, "eggs")

	matches := ParseVariableLinks("[a[eggs]", defs)
	require.Len(t, matches, 1)
	assert.Equal(t, "eggs", matches[0].Text)
	assert.True(t, matches[0].IsValid)
}

func TestParseVariableLinks_EscapedBracketsAreLiteral(t *testing.T) {
	defs := testDefinitions(t, "eggs")

	assert.Empty(t, ParseVariableLinks(`\[eggs]`, defs))

	matches := ParseVariableLinks(`[eggs] and \[not a link]`, defs)
	require.Len(t, matches, 1)
	assert.Equal(t, "eggs", matches[0].Text)
}

func TestExtractVariableReferences(t *testing.T) {
	defs := testDefinitions(t, "eggs", "flour")

	refs := ExtractVariableReferences("[eggs] then [flour] then [eggs] then [bogus]", defs)
	assert.Equal(t, []string{"def-eggs", "def-flour"}, refs,
		"valid only, first-seen order, deduplicated")
}

func TestValidateVariableLinks(t *testing.T) {
	defs := testDefinitions(t, "eggs")

	result := ValidateVariableLinks("[eggs] and [bogus]", defs)
	require.Len(t, result.Valid, 1)
	require.Len(t, result.Broken, 1)
	assert.Equal(t, "bogus", result.Broken[0].Text)
}

func TestEscapeBrackets_RoundTrip(t *testing.T) {
	raw := "keep [this] literal"
	escaped := EscapeBrackets(raw)
	assert.Equal(t, `keep \[this\] literal`, escaped)
	assert.Equal(t, raw, UnescapeBrackets(escaped))
}
