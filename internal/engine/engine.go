// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/session"
)

// Backend is the part of the API client the engine uses.
type Backend interface {
	Models(ctx context.Context) (*api.ModelsResponse, error)
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	Profile(ctx context.Context, userID string) (*api.ProfileResponse, error)
	Health(ctx context.Context) (*api.HealthResponse, error)
	History(ctx context.Context, userID string) (*api.HistoryResponse, error)
}

// Options configures an Engine. Zero values get defaults.
type Options struct {
	// DefaultModel is the configured fallback model id.
	DefaultModel string

	// Locale drives number formatting in model metadata (default: English).
	Locale language.Tag

	// Logger receives diagnostics (default: no-op).
	Logger *zap.Logger
}

// Engine owns the session state and drives the renderer.
//
// All state changes go through the engine's lock, and the renderer is
// called with that lock held. Chat turns are serialized by the session's
// turn state; catalog loads, profile refreshes and health polls are not,
// and may interleave with a turn.
type Engine struct {
	mu sync.Mutex

	sess    *session.Session
	backend Backend
	render  Renderer
	log     *zap.Logger
	printer *message.Printer

	defaultModel string
}

// New creates an engine over an existing session.
func New(sess *session.Session, backend Backend, render Renderer, opts Options) *Engine {
	if render == nil {
		render = NopRenderer{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	defaultModel := opts.DefaultModel
	if defaultModel == "" {
		defaultModel = sess.Catalog.CurrentID()
	}

	return &Engine{
		sess:         sess,
		backend:      backend,
		render:       render,
		log:          logger.Named("engine").With(zap.String("session", sess.ID())),
		printer:      message.NewPrinter(locale),
		defaultModel: defaultModel,
	}
}

// Session returns the engine's session.
func (e *Engine) Session() *session.Session {
	return e.sess
}

// Start shows the welcome placeholder and loads the catalog and profile
// concurrently. Load failures are already surfaced to the renderer; the
// catalog error is returned for the caller's information only. The two
// loads share ctx but not a group context, so a catalog failure does not
// cut the profile request short.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	e.render.ShowPlaceholder(WelcomePlaceholder)
	e.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		return e.LoadCatalog(ctx)
	})
	g.Go(func() error {
		// Profile failures are logged only.
		_ = e.RefreshProfile(ctx)
		return nil
	})
	return g.Wait()
}

// =============================================================================
// CONVERSATION
// =============================================================================

// AppendMessage appends msg to the conversation and renders it.
func (e *Engine) AppendMessage(msg model.Message) model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.appendLocked(msg)
}

func (e *Engine) appendLocked(msg model.Message) model.Message {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	stored := e.sess.Conversation.Append(msg)
	e.render.AppendMessage(NewMessageView(stored))
	return stored
}

// Notify appends a system message.
func (e *Engine) Notify(text string) {
	e.AppendMessage(model.NewSystemMessage(text))
}

// NotifyError appends an error-flagged system message.
func (e *Engine) NotifyError(text string) {
	e.AppendMessage(model.NewErrorMessage(text))
}

// Messages returns a copy of the conversation.
func (e *Engine) Messages() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Conversation.Messages()
}

// LastMessage returns the newest message of the conversation.
func (e *Engine) LastMessage() (model.Message, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Conversation.Last()
}

// Transcript returns render views of the whole conversation.
func (e *Engine) Transcript() []MessageView {
	msgs := e.Messages()
	out := make([]MessageView, len(msgs))
	for i, m := range msgs {
		out[i] = NewMessageView(m)
	}
	return out
}

// ClearPrompt is the confirmation question asked before clearing.
const ClearPrompt = "Are you sure you want to clear the chat history?"

// AutoConfirm answers yes to every confirmation. Use it when the caller
// has already confirmed.
func AutoConfirm(string) bool { return true }

// ClearConversation asks confirm, and on yes discards every message and
// shows the cleared placeholder. A nil confirm is treated as no.
//
// An in-flight turn is not cancelled; its reply is appended to the
// cleared log when it arrives.
func (e *Engine) ClearConversation(confirm func(prompt string) bool) bool {
	if confirm == nil || !confirm(ClearPrompt) {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sess.Conversation.Clear()
	e.render.ShowPlaceholder(ClearedPlaceholder)
	e.log.Debug("conversation cleared", zap.Bool("turn_in_flight", e.sess.Busy()))
	return true
}
