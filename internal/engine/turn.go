// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/insight"
	"github.com/jeranaias/bradai-tui/internal/model"
)

// Submission errors. Both leave the session unchanged.
var (
	ErrEmptyInput   = errors.New("empty input")
	ErrTurnInFlight = errors.New("a chat turn is already in flight")
)

// Turn is one submitted user message awaiting its reply.
type Turn struct {
	e       *Engine
	message model.Message
	modelID string
	once    sync.Once
}

// Message returns the user message the turn was opened with.
func (t *Turn) Message() model.Message {
	return t.message
}

// Model returns the model id the turn was sent to.
func (t *Turn) Model() string {
	return t.modelID
}

// Submit validates text, appends it as a user message and opens a turn.
// It returns ErrEmptyInput for blank text and ErrTurnInFlight while
// another turn is open; neither changes any state. The caller must call
// Await on the returned turn.
func (e *Engine) Submit(text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if !e.sess.BeginTurn() {
		return nil, ErrTurnInFlight
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	msg := e.appendLocked(model.NewUserMessage(text))
	e.render.SetBusy(true)

	return &Turn{
		e:       e,
		message: msg,
		modelID: e.sess.Catalog.CurrentID(),
	}, nil
}

// Await sends the turn to the backend and appends the reply, or an
// error-flagged system message on failure. The turn is closed on every
// path. The returned error has already been shown; it is informational.
// Calling Await more than once is a no-op after the first call.
func (t *Turn) Await(ctx context.Context) error {
	var err error
	ran := false
	t.once.Do(func() {
		ran = true
		err = t.e.await(ctx, t)
	})
	if !ran {
		return nil
	}
	return err
}

func (e *Engine) await(ctx context.Context, t *Turn) error {
	start := time.Now()
	resp, err := e.backend.Chat(ctx, api.ChatRequest{
		Message: t.message.Content,
		Model:   t.modelID,
		UserID:  e.sess.ID(),
	})

	e.mu.Lock()
	if err != nil {
		e.log.Warn("chat failed",
			zap.String("model", t.modelID),
			zap.Bool("backend_error", api.IsBackendError(err)),
			zap.Error(err))
		e.appendLocked(model.NewErrorMessage("Error: " + err.Error()))
		e.endTurnLocked()
		e.mu.Unlock()
		return err
	}

	e.appendLocked(model.NewAssistantMessage(resp.Response, resp.Model, resp.ModelVersion, resp.Time(), resp.MLInsights))
	if d, ok := insight.Map(resp.MLInsights); ok {
		e.render.ShowInsight(d)
	}
	e.endTurnLocked()
	e.mu.Unlock()

	e.log.Debug("chat turn complete",
		zap.String("model", t.modelID),
		zap.Duration("elapsed", time.Since(start)))

	_ = e.RefreshProfile(ctx)
	return nil
}

func (e *Engine) endTurnLocked() {
	e.sess.EndTurn()
	e.render.SetBusy(false)
}

// SendUserTurn submits text and waits for the reply.
func (e *Engine) SendUserTurn(ctx context.Context, text string) error {
	t, err := e.Submit(text)
	if err != nil {
		return err
	}
	return t.Await(ctx)
}
