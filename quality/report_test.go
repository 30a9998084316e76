// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/tally/item"
)

func TestBatchValidateDescriptions(t *testing.T) {
	defs := testDefs(t, "eggs", "flour")
	descs := map[string]item.VariableDescription{
		"def-eggs":  {ID: "d1", DefinitionID: "def-eggs", Content: "the eggs bind the batter and keep the crumb together well."},
		"def-flour": {ID: "d2", DefinitionID: "def-flour", Content: "see [bogus]"},
	}

	results := BatchValidateDescriptions(descs, defs)
	require.Len(t, results, 2)

	assert.True(t, results["def-eggs"].Valid)
	assert.False(t, results["def-flour"].Valid)
	assert.Len(t, results["def-flour"].BrokenLinks, 1)
}

func TestGetValidationSummary(t *testing.T) {
	results := map[string]DescriptionValidationResult{
		"a": {Score: 90, Issues: []string{"issue-1", "issue-2"}},
		"b": {Score: 70, Issues: []string{"issue-1"},
			BrokenLinks: []BrokenLink{{}}},
		"c": {Score: 50, Issues: []string{"issue-1", "issue-3"}},
	}

	summary := GetValidationSummary(results)

	assert.Equal(t, 3, summary.Total)
	assert.InDelta(t, 70.0, summary.AverageScore, 0.001)
	assert.Equal(t, 1, summary.TotalBrokenLinks)

	require.NotEmpty(t, summary.TopIssues)
	assert.Equal(t, IssueCount{Issue: "issue-1", Count: 3}, summary.TopIssues[0])
	// Equal counts tie-break alphabetically.
	assert.Equal(t, "issue-2", summary.TopIssues[1].Issue)
	assert.Equal(t, "issue-3", summary.TopIssues[2].Issue)
}

func TestGetValidationSummary_TopIssuesTruncated(t *testing.T) {
	results := map[string]DescriptionValidationResult{
		"a": {Issues: []string{"i1", "i2", "i3", "i4", "i5", "i6", "i7"}},
	}

	summary := GetValidationSummary(results)
	assert.Len(t, summary.TopIssues, TopIssueCount)
}

func TestGetValidationSummary_Empty(t *testing.T) {
	summary := GetValidationSummary(nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.AverageScore)
	assert.NotNil(t, summary.TopIssues)
}

func TestGenerateValidationReport(t *testing.T) {
	defs := testDefs(t, "eggs", "flour")
	descs := map[string]item.VariableDescription{
		"def-eggs":  {ID: "d1", DefinitionID: "def-eggs", Content: "the eggs bind the batter and keep the crumb together well."},
		"def-flour": {ID: "d2", DefinitionID: "def-flour", Content: "see [egss]"},
	}

	report := GenerateValidationReport(BatchValidateDescriptions(descs, defs), defs)

	assert.Contains(t, report, "# Description Quality Report")
	assert.Contains(t, report, "Descriptions validated: 2")
	assert.Contains(t, report, "Broken links: 1")
	assert.Contains(t, report, "## Most frequent issues")

	// Worst score is listed first.
	flourAt := strings.Index(report, "### flour")
	eggsAt := strings.Index(report, "### eggs")
	require.GreaterOrEqual(t, flourAt, 0)
	require.GreaterOrEqual(t, eggsAt, 0)
	assert.Less(t, flourAt, eggsAt)

	assert.Contains(t, report, "suggestions for [egss]: eggs")
	assert.Contains(t, report, "No issues.")
}

func TestGenerateValidationReport_NamesFallBackToID(t *testing.T) {
	results := map[string]DescriptionValidationResult{
		"unknown-def": {DefinitionID: "unknown-def", Score: 40,
			Issues: []string{"x"}, Recommendations: []string{"y"}},
	}

	report := GenerateValidationReport(results, nil)
	assert.Contains(t, report, "### unknown-def (score 40/100)")
	assert.Contains(t, report, "- x (y)")
}
