// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/bradai-tui/internal/engine"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter writes a standalone HTML page with embedded CSS. Message
// bodies are the chat formatter's output, so the page looks like the chat
// log did.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	title := html.EscapeString(t.title())

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"bradai\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", t.createdAt().Format(time.RFC3339))
	sb.WriteString(htmlCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", e.theme())
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		e.writeHeader(&sb, t, title)
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		e.writeMessage(&sb, engine.NewMessageView(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>Brad AI</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(htmlScript)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() string {
	if e.options.Theme == "light" {
		return "light"
	}
	return "dark"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) writeHeader(sb *strings.Builder, t *Transcript, title string) {
	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(sb, "            <h1>%s</h1>\n", title)
	sb.WriteString("            <div class=\"metadata\">\n")
	if t.Model != "" {
		fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Model:</strong> %s</span>\n", html.EscapeString(t.Model))
	}
	if t.SessionID != "" {
		fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Session:</strong> %s</span>\n", html.EscapeString(t.SessionID))
	}
	fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(t.createdAt()))
	fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(t.Messages))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Toggle theme\">[Theme]</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
}

// writeMessage renders one message. v.Body is already safe HTML.
func (e *HTMLExporter) writeMessage(sb *strings.Builder, v engine.MessageView) {
	class := string(v.Role) + "-message"
	if v.IsError {
		class += " error-message"
	}
	fmt.Fprintf(sb, "            <div class=\"message %s\">\n", class)

	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(sb, "                    <span class=\"role-label\">%s</span>\n", html.EscapeString(v.Sender))
	if e.options.IncludeTimestamps && !v.Time.IsZero() {
		fmt.Fprintf(sb, "                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(v.Time))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">")
	sb.WriteString(v.Body)
	sb.WriteString("</div>\n")

	if len(v.Footer) > 0 {
		sb.WriteString("                <div class=\"message-stats\">\n")
		for _, line := range v.Footer {
			fmt.Fprintf(sb, "                    <span class=\"stat\">%s</span>\n", html.EscapeString(line))
		}
		sb.WriteString("                </div>\n")
	}

	sb.WriteString("            </div>\n")
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const htmlCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --assistant-bg: #24283b;
            --code-bg: #1a1b26;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-purple: #bb9af7;
            --accent-red: #f7768e;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-secondary: #586069;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --user-bg: #f6f8fa;
            --assistant-bg: #ffffff;
            --code-bg: #f6f8fa;
            --accent-blue: #0366d6;
            --accent-green: #22863a;
            --accent-purple: #6f42c1;
            --accent-red: #d73a49;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            overflow: hidden;
        }

        .header { padding: 32px; background: var(--bg-tertiary); border-bottom: 2px solid var(--border-color); }
        .header h1 { font-size: 28px; margin-bottom: 16px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--text-secondary); align-items: center; }
        .theme-toggle {
            margin-left: auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 6px 12px;
            cursor: pointer;
            color: var(--text-primary);
        }

        .conversation { padding: 24px 32px; }
        .message { margin-bottom: 24px; padding: 20px; border-radius: 8px; border-left: 4px solid transparent; }
        .user-message { background: var(--user-bg); border-left-color: var(--accent-blue); }
        .assistant-message { background: var(--assistant-bg); border-left-color: var(--accent-green); }
        .system-message { background: var(--bg-tertiary); border-left-color: var(--accent-purple); }
        .error-message { border-left-color: var(--accent-red); color: var(--accent-red); }

        .message-header { display: flex; justify-content: space-between; margin-bottom: 12px; font-size: 14px; }
        .role-label { font-weight: 600; }
        .timestamp { color: var(--text-muted); font-size: 13px; font-family: var(--font-mono); }
        .message-content { line-height: 1.7; overflow-wrap: anywhere; }
        .message-content ul { margin: 8px 0 8px 24px; }

        .code-block {
            margin: 16px 0;
            padding: 16px;
            border-radius: 8px;
            overflow-x: auto;
            background: var(--code-bg);
            border: 1px solid var(--border-color);
        }
        .code-block code { font-family: var(--font-mono); font-size: 14px; line-height: 1.5; }
        .inline-code {
            font-family: var(--font-mono);
            font-size: 14px;
            padding: 2px 6px;
            background: var(--code-bg);
            border: 1px solid var(--border-color);
            border-radius: 4px;
            color: var(--accent-purple);
        }

        .message-stats {
            margin-top: 12px;
            padding-top: 12px;
            border-top: 1px solid var(--border-color);
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 13px;
            color: var(--text-muted);
        }

        .footer { padding: 20px 32px; text-align: center; font-size: 14px; color: var(--text-muted); border-top: 1px solid var(--border-color); }

        @media print {
            body { padding: 0; }
            .theme-toggle { display: none; }
            .message { page-break-inside: avoid; }
        }
    </style>
`

// =============================================================================
// EMBEDDED JAVASCRIPT
// =============================================================================

const htmlScript = `    <script>
        function toggleTheme() {
            const body = document.body;
            const next = body.classList.contains('dark-theme') ? 'light' : 'dark';
            body.classList.remove('dark-theme', 'light-theme');
            body.classList.add(next + '-theme');
            localStorage.setItem('bradai-theme', next);
        }
        document.addEventListener('DOMContentLoaded', function() {
            const saved = localStorage.getItem('bradai-theme');
            if (saved) {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(saved + '-theme');
            }
        });
    </script>
`
