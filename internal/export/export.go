// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// DefaultTitle is used when a transcript has no title.
const DefaultTitle = "Brad AI Conversation"

// Transcript is a snapshot of one conversation ready for export.
type Transcript struct {
	Title     string
	SessionID string
	// Model is the display name of the model selected at export time.
	Model     string
	CreatedAt time.Time
	Messages  []model.Message
}

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("conversation has no messages")

func (t *Transcript) validate() error {
	if t == nil || len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}

func (t *Transcript) title() string {
	if strings.TrimSpace(t.Title) == "" {
		return DefaultTitle
	}
	return t.Title
}

func (t *Transcript) createdAt() time.Time {
	if t.CreatedAt.IsZero() {
		return t.Messages[0].Timestamp
	}
	return t.CreatedAt
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds a header with session, model and message count.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message timestamps.
	IncludeTimestamps bool

	// Theme for HTML export: "dark" or "light". Anything else is dark.
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ErrUnsupportedFormat is returned for a file extension with no exporter.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ForExtension returns the exporter for a file extension such as ".md".
// An empty extension selects HTML.
func ForExtension(ext string, opts *Options) (Exporter, error) {
	switch strings.ToLower(ext) {
	case "", ".html", ".htm":
		return NewHTMLExporter(opts), nil
	case ".md", ".markdown":
		return NewMarkdownExporter(opts), nil
	case ".json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Formats are the names accepted by ForFormat and ToFileAs.
var Formats = []string{"html", "md", "json"}

// ForFormat returns the exporter for a format name from Formats.
func ForFormat(format string, opts *Options) (Exporter, error) {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return ForExtension("."+f, opts)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ToFile writes t to path, choosing the format from the extension. A path
// without an extension gets ".html"; an existing directory or an empty path
// gets a generated file name. A leading "~/" is expanded. It returns the
// path actually written.
func ToFile(t *Transcript, path string, opts *Options) (string, error) {
	return ToFileAs(t, path, "", opts)
}

// ToFileAs is ToFile with an explicit format that wins over the path's
// extension. A path without an extension gets the format's extension.
// An empty format behaves like ToFile.
func ToFileAs(t *Transcript, path, format string, opts *Options) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	path, err := resolvePath(t, path)
	if err != nil {
		return "", err
	}

	var exporter Exporter
	if format != "" {
		exporter, err = ForFormat(format, opts)
	} else {
		exporter, err = ForExtension(filepath.Ext(path), opts)
	}
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += exporter.FileExtension()
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func resolvePath(t *Transcript, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename(t, time.Now()))
	}
	return path, nil
}

// DefaultFilename builds "bradai_<session>_<timestamp>" with no extension.
func DefaultFilename(t *Transcript, now time.Time) string {
	name := "bradai"
	if t != nil && t.SessionID != "" {
		name += "_" + sanitizeFilename(t.SessionID)
	}
	return name + "_" + now.Format("20060102_150405")
}

// sanitizeFilename replaces characters that are invalid in file names.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(s)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			out = append(out, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			out = append(out, '_')
		case r < 32 || r == 127:
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "conversation"
	}
	return string(out)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
