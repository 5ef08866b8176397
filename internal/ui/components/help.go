// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// HELP VIEW
// =============================================================================

// RenderMarkdown renders markdown for the terminal with a glamour standard
// style ("dark", "light", "notty", ...). On failure the markdown is returned
// as-is.
func RenderMarkdown(markdown string, width int, style string) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(out, "\n")
}
