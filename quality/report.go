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
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/tally/item"
)

// TopIssueCount is how many issue strings GetValidationSummary reports.
const TopIssueCount = 5

// BatchValidateDescriptions validates every description in the set.
//
// Each description is validated against the full set, so circular
// reference detection is always active.
//
// Outputs:
//
//	map[string]DescriptionValidationResult - Keyed by definition id.
func BatchValidateDescriptions(
	descriptions map[string]item.VariableDescription,
	definitions map[string]item.VariableDefinition,
) map[string]DescriptionValidationResult {
	results := make(map[string]DescriptionValidationResult, len(descriptions))
	for defID, desc := range descriptions {
		results[defID] = ValidateVariableDescription(defID, desc.Content, definitions, descriptions)
	}
	return results
}

// GetValidationSummary aggregates a batch of validation results.
//
// TopIssues holds the five most frequent issue strings, most frequent
// first; ties sort alphabetically.
func GetValidationSummary(results map[string]DescriptionValidationResult) ValidationSummary {
	summary := ValidationSummary{TopIssues: []IssueCount{}}
	if len(results) == 0 {
		return summary
	}

	totalScore := 0
	frequency := make(map[string]int)
	for _, r := range results {
		summary.Total++
		totalScore += r.Score
		summary.TotalBrokenLinks += len(r.BrokenLinks)
		summary.TotalCircularReferences += len(r.CircularReferences)
		for _, issue := range r.Issues {
			frequency[issue]++
		}
	}
	summary.AverageScore = float64(totalScore) / float64(summary.Total)

	for issue, count := range frequency {
		summary.TopIssues = append(summary.TopIssues, IssueCount{Issue: issue, Count: count})
	}
	sort.Slice(summary.TopIssues, func(i, j int) bool {
		if summary.TopIssues[i].Count != summary.TopIssues[j].Count {
			return summary.TopIssues[i].Count > summary.TopIssues[j].Count
		}
		return summary.TopIssues[i].Issue < summary.TopIssues[j].Issue
	})
	if len(summary.TopIssues) > TopIssueCount {
		summary.TopIssues = summary.TopIssues[:TopIssueCount]
	}

	return summary
}

// GenerateValidationReport renders a batch as a Markdown report.
//
// # Description
//
// Descriptions are listed ascending by score, worst first, each with its
// issues, recommendations, and broken-link suggestions. The summary block
// at the top mirrors GetValidationSummary.
//
// Outputs:
//
//	string - The Markdown document.
func GenerateValidationReport(
	results map[string]DescriptionValidationResult,
	definitions map[string]item.VariableDefinition,
) string {
	summary := GetValidationSummary(results)

	var b strings.Builder
	b.WriteString("# Description Quality Report\n\n")
	fmt.Fprintf(&b, "- Descriptions validated: %d\n", summary.Total)
	fmt.Fprintf(&b, "- Average score: %.1f\n", summary.AverageScore)
	fmt.Fprintf(&b, "- Broken links: %d\n", summary.TotalBrokenLinks)
	fmt.Fprintf(&b, "- Circular references: %d\n", summary.TotalCircularReferences)

	if len(summary.TopIssues) > 0 {
		b.WriteString("\n## Most frequent issues\n\n")
		for _, ic := range summary.TopIssues {
			fmt.Fprintf(&b, "- %s (%d)\n", ic.Issue, ic.Count)
		}
	}

	ordered := make([]DescriptionValidationResult, 0, len(results))
	for _, r := range results {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score < ordered[j].Score
		}
		return ordered[i].DefinitionID < ordered[j].DefinitionID
	})

	b.WriteString("\n## Descriptions\n")
	for _, r := range ordered {
		name := r.DefinitionID
		if def, ok := definitions[r.DefinitionID]; ok {
			name = def.Name
		}
		fmt.Fprintf(&b, "\n### %s (score %d/100)\n\n", name, r.Score)

		if len(r.Issues) == 0 {
			b.WriteString("No issues.\n")
			continue
		}
		for i, issue := range r.Issues {
			fmt.Fprintf(&b, "- %s", issue)
			if i < len(r.Recommendations) {
				fmt.Fprintf(&b, " (%s)", r.Recommendations[i])
			}
			b.WriteString("\n")
		}
		for _, broken := range r.BrokenLinks {
			if len(broken.Suggestions) > 0 {
				fmt.Fprintf(&b, "  - suggestions for [%s]: %s\n",
					broken.Text, strings.Join(broken.Suggestions, ", "))
			}
		}
	}

	return b.String()
}
