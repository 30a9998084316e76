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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVariableLinksAsHTML(t *testing.T) {
	defs := testDefinitions(t, "eggs")

	out := FormatVariableLinksAsHTML("uses [eggs] and [bogus] daily", defs)

	assert.Contains(t, out, `data-definition-id="def-eggs"`)
	assert.Contains(t, out, `class="variable-link valid"`)
	assert.Contains(t, out, `class="variable-link broken"`)
	assert.Contains(t, out, `title="Unknown variable: bogus"`)
	assert.True(t, strings.HasPrefix(out, "uses "), "surrounding text is preserved")
	assert.True(t, strings.HasSuffix(out, " daily"))

	// Both replacements landed despite offset shifts.
	assert.Equal(t, 2, strings.Count(out, "<span"))
	assert.NotContains(t, out, "[eggs]")
	assert.NotContains(t, out, "[bogus]")
}

func TestFormatVariableLinksAsHTML_EscapesLinkText(t *testing.T) {
	defs := testDefinitions(t)

	out := FormatVariableLinksAsHTML("[<script>]", defs)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestFormatVariableLinksAsHTML_NoLinks(t *testing.T) {
	defs := testDefinitions(t, "eggs")
	assert.Equal(t, "nothing here", FormatVariableLinksAsHTML("nothing here", defs))
}
