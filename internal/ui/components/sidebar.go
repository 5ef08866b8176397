// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/insight"
	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
	"github.com/jeranaias/bradai-tui/internal/util"
)

// =============================================================================
// MODEL LIST
// =============================================================================

// ModelList is the selectable model catalog in the sidebar.
type ModelList struct {
	Entries []engine.CatalogEntry
	cursor  int
	focused bool
}

// SetEntries replaces the listing. While unfocused the cursor follows the
// active model.
func (l *ModelList) SetEntries(entries []engine.CatalogEntry) {
	l.Entries = entries
	if !l.focused {
		l.cursor = l.activeIndex()
	}
	l.clamp()
}

// Focus moves keyboard focus to the list with the cursor on the active
// model.
func (l *ModelList) Focus() {
	l.focused = true
	l.cursor = l.activeIndex()
}

// Blur returns focus to the input.
func (l *ModelList) Blur() {
	l.focused = false
	l.cursor = l.activeIndex()
}

// Focused reports whether the list has keyboard focus.
func (l *ModelList) Focused() bool {
	return l.focused
}

// MoveUp moves the cursor up one row, stopping at the top.
func (l *ModelList) MoveUp() {
	l.cursor--
	l.clamp()
}

// MoveDown moves the cursor down one row, stopping at the bottom.
func (l *ModelList) MoveDown() {
	l.cursor++
	l.clamp()
}

// Selected returns the id under the cursor.
func (l *ModelList) Selected() (string, bool) {
	if len(l.Entries) == 0 {
		return "", false
	}
	return l.Entries[l.cursor].ID, true
}

func (l *ModelList) activeIndex() int {
	for i, e := range l.Entries {
		if e.Active {
			return i
		}
	}
	return 0
}

func (l *ModelList) clamp() {
	if l.cursor >= len(l.Entries) {
		l.cursor = len(l.Entries) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// Sidebar stacks the model list, the insights panel and the profile panel.
type Sidebar struct {
	Models     ModelList
	Insight    insight.Display
	HasInsight bool
	Profile    model.UserProfile
	Width      int
	Height     int
	theme      *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{Width: 32, theme: theme}
}

// SetSize sets the outer size.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetInsight shows the latest turn's insight labels.
func (s *Sidebar) SetInsight(d insight.Display) {
	s.Insight = d
	s.HasInsight = true
}

// SetProfile shows the latest profile mirror.
func (s *Sidebar) SetProfile(p model.UserProfile) {
	s.Profile = p
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	t := s.theme
	box := t.Sidebar
	if s.Models.Focused() {
		box = t.SidebarFocused
	}
	inner := s.Width - box.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	var b strings.Builder
	b.WriteString(t.PanelTitle.UnsetMarginTop().Render("Models"))
	b.WriteByte('\n')
	b.WriteString(s.modelRows(inner))
	b.WriteByte('\n')
	b.WriteString(t.PanelTitle.Render("ML Insights"))
	b.WriteByte('\n')
	b.WriteString(s.insightRows(inner))
	b.WriteByte('\n')
	b.WriteString(t.PanelTitle.Render("Your Profile"))
	b.WriteByte('\n')
	b.WriteString(s.profileRows(inner))

	style := box.Width(s.Width - box.GetHorizontalBorderSize())
	if s.Height > 0 {
		style = style.Height(s.Height - box.GetVerticalBorderSize())
	}
	return style.Render(b.String())
}

func (s *Sidebar) modelRows(width int) string {
	t := s.theme
	if len(s.Models.Entries) == 0 {
		return t.CatalogMeta.Render("No models loaded")
	}

	rows := make([]string, 0, len(s.Models.Entries))
	for i, e := range s.Models.Entries {
		marker := "  "
		style := t.CatalogItem
		if e.Active {
			marker = "> "
			style = t.CatalogActive
		}

		label := e.Name
		if e.Version != "" {
			label += " v" + e.Version
		}
		row := style.Render(util.PadRight(marker+label, width))
		if s.Models.Focused() && i == s.Models.cursor {
			row = t.CatalogSelected.Render(row)
		}
		rows = append(rows, row)

		if e.Description != "" {
			rows = append(rows, t.CatalogMeta.Render(util.TruncateWidth("  "+e.Description, width)))
		}
	}
	return strings.Join(rows, "\n")
}

func (s *Sidebar) insightRows(width int) string {
	d := s.Insight
	if !s.HasInsight {
		d = insight.Display{Sentiment: "-", Topics: "-", Complexity: "-"}
	}
	return strings.Join([]string{
		s.row("Sentiment", d.Sentiment, width),
		s.row("Topics", d.Topics, width),
		s.row("Complexity", d.Complexity, width),
	}, "\n")
}

func (s *Sidebar) profileRows(width int) string {
	p := s.Profile
	topics := "-"
	if top := p.TopTopics(3); len(top) > 0 {
		topics = strings.Join(top, ", ")
	}
	return strings.Join([]string{
		s.row("Messages", toStr(p.InteractionCount), width),
		s.row("Topics", topics, width),
	}, "\n")
}

// row renders "Label: value" cut to width.
func (s *Sidebar) row(label, value string, width int) string {
	prefix := label + ": "
	value = util.TruncateWidth(value, width-util.StringWidth(prefix))
	return s.theme.PanelLabel.Render(prefix) + s.theme.PanelValue.Render(value)
}
