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
	"fmt"
	"html"

	"github.com/AleutianAI/tally/item"
)

// FormatVariableLinksAsHTML renders every [name] reference as a styled span.
//
// # Description
//
// Valid links become clickable spans carrying the definition id in a data
// attribute; broken links become struck-through spans with an explanatory
// tooltip. Matches are replaced in reverse position order so earlier
// replacements never invalidate the byte offsets of later ones. Text outside
// the brackets is returned verbatim; link text is HTML-escaped.
//
// Inputs:
//
//	text - The source text.
//	definitions - All known definitions, keyed by id.
//
// Outputs:
//
//	string - text with each bracket reference replaced by a span.
func FormatVariableLinksAsHTML(text string, definitions map[string]item.VariableDefinition) string {
	matches := ParseVariableLinks(text, definitions)
	out := text

	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		escaped := html.EscapeString(m.Text)

		var span string
		if m.IsValid {
			span = fmt.Sprintf(
				`<span class="variable-link valid" data-definition-id=%q>%s</span>`,
				m.DefinitionID, escaped)
		} else {
			span = fmt.Sprintf(
				`<span class="variable-link broken" title="Unknown variable: %s">%s</span>`,
				escaped, escaped)
		}

		out = out[:m.Position.Start] + span + out[m.Position.End:]
	}

	return out
}
