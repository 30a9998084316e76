// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package links parses [variable_name] references in description text.
//
// # Description
//
// This package extracts bracket references from free text, resolves them
// case-insensitively against the known variable definitions, suggests
// near-miss names for broken references, renders references as HTML, and
// detects circular description-to-description reference chains.
//
// Escaping convention: a backslash makes the following bracket literal, so
// \[ and \] never open or close a reference. The parser always honors
// escapes; EscapeBrackets and UnescapeBrackets convert between display text
// and raw text.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package links

// Position is a half-open byte range [Start, End) into the parsed text.
type Position struct {
	// Start is the byte offset of the opening bracket.
	Start int `json:"start"`

	// End is the byte offset one past the closing bracket.
	End int `json:"end"`
}

// ParsedVariableLink is one [name] reference found in text.
//
// Links are ephemeral parse results; nothing persists them.
type ParsedVariableLink struct {
	// Text is the content between the brackets.
	Text string `json:"text"`

	// FullMatch is the matched span including brackets.
	FullMatch string `json:"fullMatch"`

	// Position locates FullMatch within the source text.
	Position Position `json:"position"`

	// IsValid is true when Text resolves to a known definition.
	IsValid bool `json:"isValid"`

	// DefinitionID is the resolved definition id. Empty for broken links.
	DefinitionID string `json:"definitionId,omitempty"`
}

// LinkValidation splits parse results into valid and broken links.
type LinkValidation struct {
	// Valid are links that resolved to a definition.
	Valid []ParsedVariableLink `json:"valid"`

	// Broken are links that did not resolve.
	Broken []ParsedVariableLink `json:"broken"`
}

// CircularReference is a cycle in the description reference graph.
type CircularReference struct {
	// Path is the cycle as definition ids, with the closing node repeated
	// at the end (a -> b -> a).
	Path []string `json:"path"`

	// VariableNames is Path translated to definition names.
	VariableNames []string `json:"variableNames"`
}
