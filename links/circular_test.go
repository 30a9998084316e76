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

// describe attaches content to a definition id for circular tests.
func describe(defID, content string) item.VariableDescription {
	return item.VariableDescription{
		ID:           "desc-" + defID,
		DefinitionID: defID,
		Content:      content,
	}
}

func TestDetectCircularReferences_TwoNodeCycle(t *testing.T) {
	defs := testDefinitions(t, "eggs", "flour")
	descs := map[string]item.VariableDescription{
		"def-eggs":  describe("def-eggs", "pairs with [flour]"),
		"def-flour": describe("def-flour", "pairs with [eggs]"),
	}

	cycles := DetectCircularReferences(descs, defs)
	require.Len(t, cycles, 1)

	cycle := cycles[0]
	assert.Len(t, cycle.Path, 3, "a -> b -> a")
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
	assert.Contains(t, cycle.VariableNames, "eggs")
	assert.Contains(t, cycle.VariableNames, "flour")
}

func TestDetectCircularReferences_SelfReference(t *testing.T) {
	defs := testDefinitions(t, "eggs")
	descs := map[string]item.VariableDescription{
		"def-eggs": describe("def-eggs", "see [eggs]"),
	}

	cycles := DetectCircularReferences(descs, defs)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"def-eggs", "def-eggs"}, cycles[0].Path)
}

func TestDetectCircularReferences_AcyclicChain(t *testing.T) {
	defs := testDefinitions(t, "eggs", "flour", "cake")
	descs := map[string]item.VariableDescription{
		"def-cake":  describe("def-cake", "needs [eggs] and [flour]"),
		"def-eggs":  describe("def-eggs", "from the store"),
		"def-flour": describe("def-flour", "also from the store"),
	}

	assert.Empty(t, DetectCircularReferences(descs, defs))
}

func TestDetectCircularReferences_BrokenLinksIgnored(t *testing.T) {
	defs := testDefinitions(t, "eggs")
	descs := map[string]item.VariableDescription{
		"def-eggs": describe("def-eggs", "see [nonexistent]"),
	}

	assert.Empty(t, DetectCircularReferences(descs, defs))
}
