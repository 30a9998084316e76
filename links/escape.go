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

import "strings"

var bracketEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

// EscapeBrackets makes every bracket in s literal for the parser.
func EscapeBrackets(s string) string {
	return bracketEscaper.Replace(s)
}

// UnescapeBrackets reverses EscapeBrackets.
//
// Only bracket escapes are unwound; other backslash sequences are left as-is.
func UnescapeBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '[' || s[i+1] == ']') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}

	return b.String()
}
