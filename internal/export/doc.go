// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to a file.
//
// The HTML format reuses the chat formatter's output for message bodies and
// embeds its own CSS, so the file opens standalone in a browser. Markdown
// and JSON write the raw message content.
//
// # Key Types
//
//   - Transcript: snapshot of the conversation to export
//   - Exporter: format interface (HTML, Markdown, JSON)
//   - Options: metadata, timestamps and HTML theme
//
// # Usage
//
//	path, err := export.ToFile(&export.Transcript{
//	    SessionID: sess.ID(),
//	    Model:     "Brad AI",
//	    Messages:  eng.Messages(),
//	}, "~/chat.html", nil)
package export
