// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/jeranaias/bradai-tui/internal/format"
	"github.com/jeranaias/bradai-tui/internal/insight"
	"github.com/jeranaias/bradai-tui/internal/model"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer is the presentation adapter. The engine calls it with its state
// lock held, so calls arrive in state order; implementations must not call
// back into the engine and should return quickly.
type Renderer interface {
	// AppendMessage adds a message to the log, replacing any placeholder,
	// and scrolls to it.
	AppendMessage(MessageView)

	// ShowPlaceholder empties the log and shows a single placeholder entry.
	ShowPlaceholder(Placeholder)

	// RenderCatalog redraws the model listing.
	RenderCatalog([]CatalogEntry)

	// ShowModel updates the current model's header metadata.
	ShowModel(ModelInfo)

	// ShowInsight updates the insights panel.
	ShowInsight(insight.Display)

	// ShowProfile updates the profile panel.
	ShowProfile(model.UserProfile)

	// ShowStatus updates the backend status indicator.
	ShowStatus(Status)

	// SetBusy toggles the in-flight indicator and the submit control.
	SetBusy(bool)
}

// NopRenderer ignores every call. Embed it to implement only part of
// Renderer.
type NopRenderer struct{}

func (NopRenderer) AppendMessage(MessageView)     {}
func (NopRenderer) ShowPlaceholder(Placeholder)   {}
func (NopRenderer) RenderCatalog([]CatalogEntry)  {}
func (NopRenderer) ShowModel(ModelInfo)           {}
func (NopRenderer) ShowInsight(insight.Display)   {}
func (NopRenderer) ShowProfile(model.UserProfile) {}
func (NopRenderer) ShowStatus(Status)             {}
func (NopRenderer) SetBusy(bool)                  {}

// =============================================================================
// VIEWS
// =============================================================================

// DefaultAssistantName labels assistant messages that carry no model name.
const DefaultAssistantName = "Brad AI"

// MessageView is a render-ready message.
type MessageView struct {
	ID      string
	Role    model.Role
	Sender  string
	Time    time.Time
	IsError bool

	// Body is safe HTML: formatter output for assistant replies, escaped
	// text otherwise.
	Body string

	// Footer lines shown under an assistant reply.
	Footer []string
}

// NewMessageView builds the view for a message.
func NewMessageView(m model.Message) MessageView {
	v := MessageView{
		ID:      m.ID,
		Role:    m.Role,
		Time:    m.Timestamp,
		IsError: m.IsError,
	}

	switch m.Role {
	case model.RoleUser:
		v.Sender = "You"
		v.Body = format.Escape(m.Content)
	case model.RoleAssistant:
		v.Sender = m.Model
		if v.Sender == "" {
			v.Sender = DefaultAssistantName
		}
		v.Body = format.Format(m.Content)
		if m.ModelVersion != "" {
			v.Footer = append(v.Footer, "Model: "+m.ModelVersion)
		}
		if m.Insights != nil {
			v.Footer = append(v.Footer, "ML Analysis: "+insight.Summary(m.Insights))
		}
	default:
		v.Sender = "System"
		v.Body = format.Escape(m.Content)
	}
	return v
}

// Placeholder is the entry shown in place of an empty log.
type Placeholder struct {
	Title string
	Body  string
}

var (
	// WelcomePlaceholder is shown at startup.
	WelcomePlaceholder = Placeholder{
		Title: "Welcome to Brad AI",
		Body:  "Select a model from the sidebar and start chatting. Each model has unique capabilities!",
	}

	// ClearedPlaceholder is shown after the conversation is cleared.
	ClearedPlaceholder = Placeholder{
		Title: "Chat Cleared",
		Body:  "Select a model from the sidebar and start chatting. Each model has unique capabilities!",
	}
)

// CatalogEntry is one row of the model listing.
type CatalogEntry struct {
	ID          string
	Name        string
	Version     string
	Description string
	Active      bool
}

// ModelInfo is the header metadata for the current model. ContextLength is
// already formatted for the configured locale (e.g. "4,096").
type ModelInfo struct {
	ID              string
	Name            string
	Version         string
	Description     string
	TrainingData    string
	Parameters      string
	ContextLength   string
	SpecialFeatures []string
}

// Status is the result of one health poll.
type Status struct {
	Connected    bool
	ActiveUsers  int
	Service      string
	ModelsLoaded int
	CheckedAt    time.Time
}

// Label is the short indicator text, e.g. "connected, 3 users".
func (s Status) Label() string {
	if !s.Connected {
		return "disconnected"
	}
	return "connected, " + english.Plural(s.ActiveUsers, "user", "")
}
