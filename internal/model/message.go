// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// ML INSIGHT
// =============================================================================

// MLInsight is the per-turn analysis the backend attaches to a reply.
type MLInsight struct {
	Sentiment      string   `json:"sentiment"`
	SentimentScore float64  `json:"sentiment_score,omitempty"`
	Topics         []string `json:"topics"`
	// Complexity is in [0,1].
	Complexity float64 `json:"complexity"`
}

// clone returns a deep copy so callers cannot reach into a logged message.
func (i *MLInsight) clone() *MLInsight {
	if i == nil {
		return nil
	}
	c := *i
	c.Topics = append([]string(nil), i.Topics...)
	return &c
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
// Messages are immutable once appended to a Conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Assistant metadata
	Model        string     `json:"model,omitempty"`
	ModelVersion string     `json:"model_version,omitempty"`
	Insights     *MLInsight `json:"ml_insights,omitempty"`

	// IsError marks system messages that report a failure.
	IsError bool `json:"is_error,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant reply with its model identity and
// insights.
func NewAssistantMessage(content, modelName, version string, ts time.Time, insights *MLInsight) Message {
	msg := NewMessage(RoleAssistant, content)
	if !ts.IsZero() {
		msg.Timestamp = ts
	}
	msg.Model = modelName
	msg.ModelVersion = version
	msg.Insights = insights.clone()
	return msg
}

// NewSystemMessage creates a new informational system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewErrorMessage creates a system message flagged as an error.
func NewErrorMessage(content string) Message {
	msg := NewMessage(RoleSystem, content)
	msg.IsError = true
	return msg
}

// clone returns a copy that shares no mutable state with m.
func (m Message) clone() Message {
	m.Insights = m.Insights.clone()
	return m
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
