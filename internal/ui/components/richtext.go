// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// RICH TEXT
// =============================================================================

// RenderRichText turns message body HTML into styled terminal text wrapped
// to width. It understands the elements the chat formatter emits: pre/code
// blocks, inline code, strong, ul/li and br. Unknown tags are dropped and
// their text kept.
func RenderRichText(body string, width int, theme *styles.Theme) string {
	r := richText{theme: theme, width: width}
	r.run(body)
	return r.finish()
}

type richText struct {
	theme *styles.Theme
	width int

	blocks []string
	text   strings.Builder

	bold       int
	inlineCode bool

	inPre    bool
	codeLang string
	code     strings.Builder
}

func (r *richText) run(body string) {
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF; the input is a string so nothing else can fail.
			return
		case html.TextToken:
			r.writeText(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			r.startTag(string(name), classOf(z, hasAttr))
		case html.EndTagToken:
			name, _ := z.TagName()
			r.endTag(string(name))
		}
	}
}

func (r *richText) startTag(name, class string) {
	switch name {
	case "pre":
		r.flushText()
		r.inPre = true
		r.codeLang = ""
		r.code.Reset()
	case "code":
		if r.inPre {
			r.codeLang = strings.TrimPrefix(class, "language-")
			if r.codeLang == class {
				r.codeLang = ""
			}
		} else {
			r.inlineCode = true
		}
	case "strong", "b":
		r.bold++
	case "ul":
		r.newline()
	case "li":
		r.newline()
		r.text.WriteString(r.theme.Bullet.Render("•") + " ")
	case "br":
		if r.inPre {
			r.code.WriteByte('\n')
		} else {
			r.text.WriteByte('\n')
		}
	}
}

func (r *richText) endTag(name string) {
	switch name {
	case "pre":
		if !r.inPre {
			return
		}
		r.inPre = false
		cb := NewCodeBlock(r.theme, r.codeLang, r.code.String())
		cb.SetMaxWidth(r.width)
		r.blocks = append(r.blocks, cb.Render())
	case "code":
		r.inlineCode = false
	case "strong", "b":
		if r.bold > 0 {
			r.bold--
		}
	case "li", "ul":
		r.newline()
	}
}

func (r *richText) writeText(s string) {
	if r.inPre {
		r.code.WriteString(s)
		return
	}
	if s == "" {
		return
	}
	switch {
	case r.inlineCode:
		r.text.WriteString(r.theme.InlineCode.Render(s))
	case r.bold > 0:
		r.text.WriteString(r.theme.Bold.Render(s))
	default:
		r.text.WriteString(s)
	}
}

// newline ends the current line unless it is already empty.
func (r *richText) newline() {
	s := r.text.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		r.text.WriteByte('\n')
	}
}

func (r *richText) flushText() {
	s := strings.Trim(r.text.String(), "\n")
	r.text.Reset()
	if s == "" {
		return
	}
	if r.width > 0 {
		s = lipgloss.NewStyle().Width(r.width).Render(s)
	}
	r.blocks = append(r.blocks, s)
}

func (r *richText) finish() string {
	if r.inPre {
		// Unterminated block: keep the text.
		r.inPre = false
		r.text.WriteString(r.code.String())
	}
	r.flushText()
	return strings.Join(r.blocks, "\n")
}

func classOf(z *html.Tokenizer, more bool) string {
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		if string(key) == "class" {
			return string(val)
		}
	}
	return ""
}
