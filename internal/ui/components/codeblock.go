// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is one fenced code block from an assistant reply.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	theme    *styles.Theme
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(theme *styles.Theme, language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		theme:    theme,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with a language badge, line numbers and
// syntax highlighting.
func (c CodeBlock) Render() string {
	code := strings.Trim(c.Code, "\n")

	highlighted := highlightCode(code, c.Language, c.theme.ChromaStyle(), c.theme.HasTrueColor)
	lines := strings.Split(highlighted, "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	rendered := make([]string, 0, len(lines)+1)
	if c.Language != "" {
		rendered = append(rendered, c.theme.CodeLangBadge.Render(c.Language))
	}
	for i, line := range lines {
		rendered = append(rendered, lineNumStyle.Render(toStr(i+1))+line)
	}

	maxWidth := c.MaxWidth
	if maxWidth < 20 {
		maxWidth = 20
	}
	return c.theme.CodeBlock.MaxWidth(maxWidth).Render(strings.Join(rendered, "\n"))
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode returns code with ANSI highlighting, or code unchanged when
// chroma fails. An empty language is guessed from the content.
func highlightCode(code, language, styleName string, trueColor bool) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	name := "terminal256"
	if trueColor {
		name = "terminal16m"
	}
	formatter := formatters.Get(name)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}
