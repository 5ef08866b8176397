// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown on the right of the status bar.
var DefaultShortcuts = []Shortcut{
	{"Enter", "send"},
	{"Alt+Enter", "newline"},
	{"Tab", "models"},
	{"Ctrl+L", "clear"},
	{"Ctrl+C", "quit"},
}

// StatusBar shows backend status, the busy indicator and key hints.
type StatusBar struct {
	Status    engine.Status
	HasStatus bool
	Busy      bool
	// Spinner is the current spinner frame, shown while Busy.
	Spinner   string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Shortcuts: DefaultShortcuts,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus records the latest health poll.
func (s *StatusBar) SetStatus(st engine.Status) {
	s.Status = st
	s.HasStatus = true
}

// View renders the bar. now is used for the "checked ... ago" text.
// Shortcuts are dropped from the right until everything fits.
func (s *StatusBar) View(now time.Time) string {
	t := s.theme
	left := s.statusText(now)
	if s.Busy {
		left += "  " + t.Spinner.Render(s.Spinner) + " " + t.ThinkingText.Render(Brand+" is thinking...")
	}

	inner := s.Width - t.StatusBar.GetHorizontalFrameSize()
	for n := len(s.Shortcuts); n >= 0; n-- {
		right := s.shortcutText(s.Shortcuts[:n])
		gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
		if gap >= 1 || n == 0 {
			if gap < 1 {
				gap = 1
			}
			return t.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(left + strings.Repeat(" ", gap) + right)
		}
	}
	return ""
}

func (s *StatusBar) statusText(now time.Time) string {
	t := s.theme
	if !s.HasStatus {
		return t.StatusChecked.Render(styles.StatusIndicators.Pending + " checking...")
	}

	st := s.Status
	var text string
	if st.Connected {
		label := st.Label()
		if st.Service != "" {
			label = st.Service + ": " + label
		}
		text = t.StatusConnected.Render(styles.StatusIndicators.Success + " " + label)
	} else {
		text = t.StatusDisconnected.Render(styles.StatusIndicators.Error + " " + st.Label())
	}

	if !st.CheckedAt.IsZero() {
		text += " " + t.StatusChecked.Render("(checked "+humanize.RelTime(st.CheckedAt, now, "ago", "from now")+")")
	}
	return text
}

func (s *StatusBar) shortcutText(shortcuts []Shortcut) string {
	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
