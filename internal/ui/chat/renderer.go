// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/insight"
	"github.com/jeranaias/bradai-tui/internal/model"
)

// =============================================================================
// RENDERER ADAPTER
// =============================================================================

// viewState is what the engine has asked the screen to show.
type viewState struct {
	messages    []engine.MessageView
	placeholder *engine.Placeholder

	catalog  []engine.CatalogEntry
	model    engine.ModelInfo
	hasModel bool

	insight    insight.Display
	hasInsight bool
	profile    model.UserProfile

	status    engine.Status
	hasStatus bool

	busy bool

	// appended counts AppendMessage calls; a change means scroll to bottom.
	appended uint64
}

// Renderer implements engine.Renderer for the Bubble Tea program.
//
// The engine calls it from any goroutine with the engine lock held, so it
// only records state and flags a redraw. The program picks the state up on
// the Update goroutine through WaitForRedraw.
type Renderer struct {
	mu    sync.Mutex
	state viewState
	dirty chan struct{}
}

var _ engine.Renderer = (*Renderer)(nil)

// NewRenderer creates an empty renderer.
func NewRenderer() *Renderer {
	return &Renderer{dirty: make(chan struct{}, 1)}
}

func (r *Renderer) update(fn func(s *viewState)) {
	r.mu.Lock()
	fn(&r.state)
	r.mu.Unlock()

	select {
	case r.dirty <- struct{}{}:
	default:
	}
}

// AppendMessage implements engine.Renderer.
func (r *Renderer) AppendMessage(v engine.MessageView) {
	r.update(func(s *viewState) {
		s.placeholder = nil
		s.messages = append(s.messages, v)
		s.appended++
	})
}

// ShowPlaceholder implements engine.Renderer.
func (r *Renderer) ShowPlaceholder(p engine.Placeholder) {
	r.update(func(s *viewState) {
		s.messages = nil
		s.placeholder = &p
	})
}

// RenderCatalog implements engine.Renderer.
func (r *Renderer) RenderCatalog(entries []engine.CatalogEntry) {
	r.update(func(s *viewState) {
		s.catalog = append([]engine.CatalogEntry(nil), entries...)
	})
}

// ShowModel implements engine.Renderer.
func (r *Renderer) ShowModel(info engine.ModelInfo) {
	r.update(func(s *viewState) {
		s.model = info
		s.hasModel = true
	})
}

// ShowInsight implements engine.Renderer.
func (r *Renderer) ShowInsight(d insight.Display) {
	r.update(func(s *viewState) {
		s.insight = d
		s.hasInsight = true
	})
}

// ShowProfile implements engine.Renderer.
func (r *Renderer) ShowProfile(p model.UserProfile) {
	r.update(func(s *viewState) {
		s.profile = p
	})
}

// ShowStatus implements engine.Renderer.
func (r *Renderer) ShowStatus(st engine.Status) {
	r.update(func(s *viewState) {
		s.status = st
		s.hasStatus = true
	})
}

// SetBusy implements engine.Renderer.
func (r *Renderer) SetBusy(busy bool) {
	r.update(func(s *viewState) {
		s.busy = busy
	})
}

// snapshot copies the current state.
func (r *Renderer) snapshot() viewState {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	s.messages = append([]engine.MessageView(nil), r.state.messages...)
	s.catalog = append([]engine.CatalogEntry(nil), r.state.catalog...)
	if r.state.placeholder != nil {
		p := *r.state.placeholder
		s.placeholder = &p
	}
	return s
}

// WaitForRedraw returns a command that blocks until the renderer has new
// state, or ctx is done.
func (r *Renderer) WaitForRedraw(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-r.dirty:
			return RedrawMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
