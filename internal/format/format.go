// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format turns raw chat text into safe rich text.
//
// Format escapes the whole input before it interprets any markup, so every
// tag in the output was produced here and none came from the input. The
// supported markup is a small markdown subset: fenced code blocks, inline
// code, bold, dash/star bullet lists and line breaks. Inline code and bold
// do not span lines. Anything unbalanced is left as literal text.
package format

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	// ```lang\n ... ```
	codeBlockRe = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

	// `code`, within one line.
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")

	// **bold**, within one line.
	boldRe = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)

	// "- item" or "* item", optionally indented.
	listItemRe = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.+)$`)

	// One or more <li> lines separated only by newlines.
	listRunRe = regexp.MustCompile(`<li>.*?</li>(?:\n<li>.*?</li>)*`)

	// Placeholder for a stashed code block. It contains '<', which cannot
	// appear in escaped text, so it never collides with user content.
	placeholderRe = regexp.MustCompile(`<!--block:(\d+)-->`)
)

// Class names emitted on generated elements.
const (
	ClassCodeBlock  = "code-block"
	ClassInlineCode = "inline-code"
)

// =============================================================================
// FORMAT
// =============================================================================

// Format converts raw text to HTML-safe rich text. Steps run in this order:
//
//  1. escape the entire input
//  2. fenced code blocks -> <pre class="code-block"><code>
//  3. `inline` -> <code class="inline-code">
//  4. **bold** -> <strong>
//  5. bullet lines -> <li>, runs wrapped in one <ul>
//  6. remaining newlines -> <br>
//
// Code block bodies are set aside after step 2 and restored at the end, so
// steps 3-6 never rewrite code.
func Format(raw string) string {
	text := Escape(raw)

	var blocks []string
	text = codeBlockRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := codeBlockRe.FindStringSubmatch(match)
		blocks = append(blocks, renderCodeBlock(sub[1], sub[2]))
		return "<!--block:" + strconv.Itoa(len(blocks)-1) + "-->"
	})

	text = inlineCodeRe.ReplaceAllString(text, `<code class="`+ClassInlineCode+`">$1</code>`)
	text = boldRe.ReplaceAllString(text, `<strong>$1</strong>`)

	text = listItemRe.ReplaceAllString(text, `<li>$1</li>`)
	text = listRunRe.ReplaceAllStringFunc(text, func(run string) string {
		return "<ul>" + strings.ReplaceAll(run, "\n", "") + "</ul>"
	})

	text = strings.ReplaceAll(text, "\n", "<br>")

	if len(blocks) > 0 {
		text = placeholderRe.ReplaceAllStringFunc(text, func(ph string) string {
			i, err := strconv.Atoi(placeholderRe.FindStringSubmatch(ph)[1])
			if err != nil || i >= len(blocks) {
				return ""
			}
			return blocks[i]
		})
	}
	return text
}

// Escape HTML-escapes text. It is the only escaping used by the package.
func Escape(text string) string {
	return html.EscapeString(text)
}

// renderCodeBlock builds the <pre> element for one fenced block. The body
// has already been escaped once; it is normalised (unescape then escape) so
// a stray '<' cannot survive while existing entities are not double-escaped.
func renderCodeBlock(lang, body string) string {
	code := html.EscapeString(html.UnescapeString(body))

	var sb strings.Builder
	sb.WriteString(`<pre class="` + ClassCodeBlock + `"><code`)
	if lang != "" {
		sb.WriteString(` class="language-` + lang + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(code)
	sb.WriteString("</code></pre>")
	return sb.String()
}
