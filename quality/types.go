// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package quality scores variable descriptions for clarity and link health.
//
// # Description
//
// Each description gets a heuristic 0-100 score built from length, word
// count, punctuation, markup, vocabulary richness, and the state of its
// [name] references. Every deduction appends a human-readable issue and a
// matching recommendation; bonuses are silent. Batch helpers aggregate the
// per-description results and render a Markdown report, worst first.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package quality

import "github.com/AleutianAI/tally/links"

// Score bounds and rubric weights.
const (
	// MaxScore is the best possible quality score.
	MaxScore = 100

	// MinScore is the worst possible quality score.
	MinScore = 0

	penaltyVeryShort      = 30
	penaltyShort          = 15
	penaltyFewWords       = 20
	penaltyNoPunctuation  = 10
	penaltyBrokenLink     = 15
	penaltyCircular       = 25
	bonusValidLink        = 5
	bonusValidLinkCap     = 15
	bonusMarkup           = 5
	bonusBullets          = 5
	bonusRichVocabulary   = 5
	veryShortLength       = 20
	shortLength           = 50
	minWordCount          = 3
	richVocabularyRatio   = 0.7
)

// BrokenLink is an unresolved reference plus repair suggestions.
type BrokenLink struct {
	links.ParsedVariableLink

	// Suggestions are close definition names, best first.
	Suggestions []string `json:"suggestions"`
}

// DescriptionValidationResult is the full quality assessment of one
// description.
type DescriptionValidationResult struct {
	// DefinitionID is the definition whose description was validated.
	DefinitionID string `json:"definitionId"`

	// Score is the 0-100 quality score.
	Score int `json:"score"`

	// Valid is true when the description has no broken links and no
	// circular references.
	Valid bool `json:"valid"`

	// Issues are human-readable problems, in detection order.
	Issues []string `json:"issues"`

	// Recommendations parallel Issues with corrective suggestions.
	Recommendations []string `json:"recommendations"`

	// ValidLinks are references that resolved.
	ValidLinks []links.ParsedVariableLink `json:"validLinks"`

	// BrokenLinks are references that did not resolve.
	BrokenLinks []BrokenLink `json:"brokenLinks"`

	// CircularReferences are cycles involving this description. Empty
	// when the full description set was not supplied.
	CircularReferences []links.CircularReference `json:"circularReferences"`
}

// IssueCount is one issue string with its frequency.
type IssueCount struct {
	// Issue is the issue text.
	Issue string `json:"issue"`

	// Count is how many descriptions reported it.
	Count int `json:"count"`
}

// ValidationSummary aggregates a batch of validation results.
type ValidationSummary struct {
	// Total is the number of descriptions validated.
	Total int `json:"total"`

	// AverageScore is the mean quality score, 0 when Total is 0.
	AverageScore float64 `json:"averageScore"`

	// TotalBrokenLinks sums broken links across all descriptions.
	TotalBrokenLinks int `json:"totalBrokenLinks"`

	// TotalCircularReferences sums cycles across all descriptions.
	TotalCircularReferences int `json:"totalCircularReferences"`

	// TopIssues are the five most frequent issue strings.
	TopIssues []IssueCount `json:"topIssues"`
}
