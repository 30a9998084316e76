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
	"regexp"
	"sort"
	"strings"

	"github.com/AleutianAI/tally/item"
	"github.com/AleutianAI/tally/links"
)

var (
	// boldItalicPattern matches **bold**, *italic*, or _italic_ spans.
	boldItalicPattern = regexp.MustCompile(`\*\*[^*]+\*\*|\*[^*\s][^*]*\*|_[^_\s][^_]*_`)

	// bulletPattern matches a markdown bullet at the start of a line.
	bulletPattern = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)

	wordSplitter = regexp.MustCompile(`\s+`)
)

// ValidateVariableDescription scores one description.
//
// # Description
//
// Parses content for [name] references, attaches repair suggestions to
// every broken link, optionally checks for circular references when the
// full description set is supplied (pass nil to skip), and computes the
// quality score. The score starts at MaxScore; every deduction appends an
// issue and a matching recommendation, bonuses adjust silently, and the
// result is clamped to [MinScore, MaxScore].
//
// Inputs:
//
//	definitionID - The definition owning this description.
//	content - The description text.
//	definitions - All known definitions, keyed by id.
//	allDescriptions - Full description set for circular detection; nil
//	skips that check.
//
// Outputs:
//
//	DescriptionValidationResult - Never nil slices.
func ValidateVariableDescription(
	definitionID, content string,
	definitions map[string]item.VariableDefinition,
	allDescriptions map[string]item.VariableDescription,
) DescriptionValidationResult {
	result := DescriptionValidationResult{
		DefinitionID:       definitionID,
		Issues:             []string{},
		Recommendations:    []string{},
		ValidLinks:         []links.ParsedVariableLink{},
		BrokenLinks:        []BrokenLink{},
		CircularReferences: []links.CircularReference{},
	}

	names := definitionNames(definitions)
	validation := links.ValidateVariableLinks(content, definitions)
	result.ValidLinks = validation.Valid
	for _, broken := range validation.Broken {
		result.BrokenLinks = append(result.BrokenLinks, BrokenLink{
			ParsedVariableLink: broken,
			Suggestions:        links.GenerateVariableNameSuggestions(broken.Text, names, 0),
		})
	}

	if allDescriptions != nil {
		for _, cycle := range links.DetectCircularReferences(allDescriptions, definitions) {
			if cycleInvolves(cycle, definitionID) {
				result.CircularReferences = append(result.CircularReferences, cycle)
			}
		}
	}

	result.Score = scoreDescription(content, &result)
	result.Valid = len(result.BrokenLinks) == 0 && len(result.CircularReferences) == 0
	return result
}

// scoreDescription applies the quality rubric, appending issue and
// recommendation pairs to result as it goes.
func scoreDescription(content string, result *DescriptionValidationResult) int {
	score := MaxScore
	trimmed := strings.TrimSpace(content)

	addIssue := func(penalty int, issue, recommendation string) {
		score -= penalty
		result.Issues = append(result.Issues, issue)
		result.Recommendations = append(result.Recommendations, recommendation)
	}

	switch {
	case len(trimmed) < veryShortLength:
		addIssue(penaltyVeryShort,
			"description is very short",
			"expand the description to at least a sentence or two")
	case len(trimmed) < shortLength:
		addIssue(penaltyShort,
			"description could be more detailed",
			"add detail about how and when this variable is used")
	}

	if countWords(trimmed) < minWordCount {
		addIssue(penaltyFewWords,
			"description has fewer than three words",
			"write a full sentence describing the variable")
	}

	if trimmed != "" && !strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?") {
		addIssue(penaltyNoPunctuation,
			"description does not end with punctuation",
			"finish the description with a complete sentence")
	}

	for _, broken := range result.BrokenLinks {
		issue := fmt.Sprintf("broken link [%s]", broken.Text)
		rec := fmt.Sprintf("remove the [%s] reference or create that variable", broken.Text)
		if len(broken.Suggestions) > 0 {
			rec = fmt.Sprintf("did you mean [%s]?", broken.Suggestions[0])
		}
		addIssue(penaltyBrokenLink, issue, rec)
	}

	if len(result.CircularReferences) > 0 {
		addIssue(penaltyCircular,
			"description participates in a circular reference chain",
			"break the cycle by removing one of the mutual references")
	}

	// Bonuses are silent; they never append issues.
	linkBonus := len(result.ValidLinks) * bonusValidLink
	if linkBonus > bonusValidLinkCap {
		linkBonus = bonusValidLinkCap
	}
	score += linkBonus

	if boldItalicPattern.MatchString(content) {
		score += bonusMarkup
	}
	if bulletPattern.MatchString(content) {
		score += bonusBullets
	}
	if uniqueWordRatio(trimmed) > richVocabularyRatio {
		score += bonusRichVocabulary
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < MinScore {
		score = MinScore
	}
	return score
}

func countWords(s string) int {
	if s == "" {
		return 0
	}
	return len(wordSplitter.Split(s, -1))
}

// uniqueWordRatio returns unique words / total words, case-insensitive.
func uniqueWordRatio(s string) float64 {
	if s == "" {
		return 0
	}
	words := wordSplitter.Split(strings.ToLower(s), -1)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

func cycleInvolves(cycle links.CircularReference, definitionID string) bool {
	for _, id := range cycle.Path {
		if id == definitionID {
			return true
		}
	}
	return false
}

// definitionNames returns all definition names in sorted order, so
// suggestion tie-breaks are deterministic.
func definitionNames(definitions map[string]item.VariableDefinition) []string {
	names := make([]string, 0, len(definitions))
	for _, def := range definitions {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}
