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
	"strings"

	"github.com/AleutianAI/tally/item"
)

// ParseVariableLinks extracts every [name] reference from text.
//
// # Description
//
// Scans for bracket spans. A span closes at the first unescaped ']'; a
// later '[' before any ']' abandons the earlier opener, so brackets never
// nest. Empty brackets match (as broken links). An unterminated '[' simply
// never matches; malformed text is not an error. Backslash-escaped brackets
// are literal text.
//
// Each enclosed name is resolved against the definitions case-insensitively
// after trimming surrounding whitespace.
//
// Inputs:
//
//	text - The text to scan. May be empty.
//	definitions - All known definitions, keyed by id.
//
// Outputs:
//
//	[]ParsedVariableLink - Matches in left-to-right order with exact byte
//	offsets. Empty slice if none.
func ParseVariableLinks(text string, definitions map[string]item.VariableDefinition) []ParsedVariableLink {
	matches := []ParsedVariableLink{}
	if text == "" {
		return matches
	}

	byName := nameIndex(definitions)

	openPos := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			// Escape: the next byte is literal.
			i++
		case '[':
			openPos = i
		case ']':
			if openPos < 0 {
				continue
			}
			inner := text[openPos+1 : i]
			link := ParsedVariableLink{
				Text:      inner,
				FullMatch: text[openPos : i+1],
				Position:  Position{Start: openPos, End: i + 1},
			}
			if id, ok := byName[normalizeName(inner)]; ok {
				link.IsValid = true
				link.DefinitionID = id
			}
			matches = append(matches, link)
			openPos = -1
		}
	}

	recordParse(len(matches), countBroken(matches))
	return matches
}

// ExtractVariableReferences returns the definition ids referenced by text.
//
// Broken links are excluded. Ids keep first-seen order and are deduplicated.
func ExtractVariableReferences(text string, definitions map[string]item.VariableDefinition) []string {
	ids := []string{}
	seen := make(map[string]struct{})

	for _, link := range ParseVariableLinks(text, definitions) {
		if !link.IsValid {
			continue
		}
		if _, dup := seen[link.DefinitionID]; dup {
			continue
		}
		seen[link.DefinitionID] = struct{}{}
		ids = append(ids, link.DefinitionID)
	}

	return ids
}

// ValidateVariableLinks parses text and splits the links by validity.
func ValidateVariableLinks(text string, definitions map[string]item.VariableDefinition) LinkValidation {
	result := LinkValidation{
		Valid:  []ParsedVariableLink{},
		Broken: []ParsedVariableLink{},
	}

	for _, link := range ParseVariableLinks(text, definitions) {
		if link.IsValid {
			result.Valid = append(result.Valid, link)
		} else {
			result.Broken = append(result.Broken, link)
		}
	}

	return result
}

// nameIndex builds a lowercased name -> definition id lookup.
func nameIndex(definitions map[string]item.VariableDefinition) map[string]string {
	byName := make(map[string]string, len(definitions))
	for id, def := range definitions {
		byName[normalizeName(def.Name)] = id
	}
	return byName
}

// normalizeName lowercases and trims a candidate variable name.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func countBroken(matches []ParsedVariableLink) int {
	broken := 0
	for _, m := range matches {
		if !m.IsValid {
			broken++
		}
	}
	return broken
}
