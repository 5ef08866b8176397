// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message view.
type MessageBubble struct {
	Message engine.MessageView
	Width   int
	// Now decides whether the timestamp needs a date. Zero means time.Now.
	Now   time.Time
	theme *styles.Theme
}

// NewMessageBubble creates a new MessageBubble
func NewMessageBubble(v engine.MessageView, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message: v,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the bubble width
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble
func (b *MessageBubble) View() string {
	bubble, sender := b.styles()

	// Width on a lipgloss style covers padding but not border or margin.
	outer := b.Width - bubble.GetHorizontalMargins() - bubble.GetHorizontalBorderSize()
	inner := b.Width - bubble.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
		outer = inner + bubble.GetHorizontalPadding()
	}

	head := sender.Render(b.Message.Sender)
	if ts := b.renderTimestamp(); ts != "" {
		head += "  " + ts
	}

	parts := []string{head, RenderRichText(b.Message.Body, inner, b.theme)}
	for _, line := range b.Message.Footer {
		parts = append(parts, b.theme.MessageFooter.Render(line))
	}

	return bubble.Width(outer).Render(strings.Join(parts, "\n"))
}

func (b *MessageBubble) styles() (bubble, sender lipgloss.Style) {
	t := b.theme
	switch {
	case b.Message.IsError:
		return t.ErrorBubble, t.MessageSender.Foreground(styles.Rose)
	case b.Message.Role == model.RoleUser:
		return t.UserBubble, t.MessageSender.Foreground(styles.Cyan)
	case b.Message.Role == model.RoleAssistant:
		return t.AssistantBubble, t.MessageSender.Foreground(styles.Purple)
	default:
		return t.SystemBubble, t.MessageSender.Foreground(styles.Amber)
	}
}

// renderTimestamp renders "3:04 PM", or "Jan 2, 3:04 PM" for other days.
func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Time
	if ts.IsZero() {
		return ""
	}
	now := b.Now
	if now.IsZero() {
		now = time.Now()
	}
	return b.theme.MessageTime.Render(formatStamp(ts, now))
}

func formatStamp(ts, now time.Time) string {
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("3:04 PM")
	}
	return ts.Format("Jan 2, 3:04 PM")
}

// =============================================================================
// PLACEHOLDER
// =============================================================================

// RenderPlaceholder renders the centered entry shown in an empty log.
func RenderPlaceholder(p engine.Placeholder, width int, theme *styles.Theme) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(theme.PlaceholderTitle.Render(p.Title)),
		"",
		center.Render(theme.PlaceholderBody.Render(p.Body)),
	)
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders the message log. Rendered bubbles are cached by
// message ID until the width changes.
type MessageList struct {
	Messages    []engine.MessageView
	Placeholder *engine.Placeholder
	Width       int
	theme       *styles.Theme

	cache      map[string]string
	cacheWidth int
}

// NewMessageList creates a new MessageList
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width: 80,
		theme: theme,
		cache: make(map[string]string),
	}
}

// SetMessages replaces the log. A nil placeholder with no messages renders
// nothing.
func (ml *MessageList) SetMessages(messages []engine.MessageView, placeholder *engine.Placeholder) {
	ml.Messages = messages
	ml.Placeholder = placeholder
	if len(messages) == 0 {
		ml.cache = make(map[string]string)
	}
}

// SetWidth sets the list width
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		if ml.Placeholder == nil {
			return ""
		}
		return RenderPlaceholder(*ml.Placeholder, ml.Width, ml.theme)
	}

	if ml.cacheWidth != ml.Width {
		ml.cache = make(map[string]string, len(ml.Messages))
		ml.cacheWidth = ml.Width
	}

	bubbles := make([]string, 0, len(ml.Messages))
	for _, v := range ml.Messages {
		rendered, ok := ml.cache[v.ID]
		if !ok || v.ID == "" {
			bubble := NewMessageBubble(v, ml.theme)
			bubble.SetWidth(ml.Width)
			rendered = bubble.View()
			if v.ID != "" {
				ml.cache[v.ID] = rendered
			}
		}
		bubbles = append(bubbles, rendered)
	}
	return strings.Join(bubbles, "\n")
}
