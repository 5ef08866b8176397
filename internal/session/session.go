// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jeranaias/bradai-tui/internal/model"
)

// =============================================================================
// SESSION IDENTITY
// =============================================================================

const (
	idPrefix   = "user_"
	idLength   = 9
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewID generates a short pseudo-random session token such as
// "user_k3j9x0a2b". It is not cryptographically secure.
func NewID() string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return idPrefix + string(b)
}

// =============================================================================
// TURN STATE MACHINE
// =============================================================================

// TurnState is the chat-turn state. Only one turn may be in flight.
type TurnState int32

const (
	TurnIdle TurnState = iota
	TurnAwaitingResponse
)

// String returns the display string for the state.
func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnAwaitingResponse:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the single state object for one run of the client.
//
// The ID and start time never change. The turn state is safe for concurrent
// use; Catalog, Conversation and Profile are guarded by the owner (the
// engine) and must not be touched from other goroutines without it.
type Session struct {
	id        string
	startedAt time.Time
	turn      atomic.Int32

	Catalog      *model.Catalog
	Conversation *model.Conversation
	Profile      model.UserProfile
}

// New creates a session with a fresh id and an empty catalog whose
// selection starts at defaultModel.
func New(defaultModel string) *Session {
	return NewWithID(NewID(), defaultModel)
}

// NewWithID creates a session with a caller-supplied id.
func NewWithID(id, defaultModel string) *Session {
	s := &Session{
		id:           id,
		startedAt:    time.Now(),
		Catalog:      model.NewCatalog(defaultModel),
		Conversation: model.NewConversation(),
	}
	s.Profile.SessionID = id
	return s
}

// ID returns the session id. It is stable for the session's lifetime.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Turn returns the current turn state.
func (s *Session) Turn() TurnState {
	return TurnState(s.turn.Load())
}

// Busy reports whether a turn is in flight.
func (s *Session) Busy() bool {
	return s.Turn() == TurnAwaitingResponse
}

// BeginTurn moves Idle -> AwaitingResponse. It returns false, leaving the
// state unchanged, when a turn is already in flight.
func (s *Session) BeginTurn() bool {
	return s.turn.CompareAndSwap(int32(TurnIdle), int32(TurnAwaitingResponse))
}

// EndTurn moves AwaitingResponse -> Idle. It returns false if no turn was
// in flight.
func (s *Session) EndTurn() bool {
	return s.turn.CompareAndSwap(int32(TurnAwaitingResponse), int32(TurnIdle))
}
