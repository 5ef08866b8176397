// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the per-process chat session state.
//
// A Session is created once at startup and lives until the process exits.
// It owns the ephemeral session id sent to the backend as user_id, the
// model catalog, the conversation log, the profile mirror and the turn
// state machine that serializes chat turns.
//
// # Key Types
//
//   - Session: the single state object injected into the engine
//   - TurnState: Idle / AwaitingResponse
//
// # Usage
//
//	sess := session.New("brad-ai-1.12.2x")
//	if sess.BeginTurn() {
//	    defer sess.EndTurn()
//	    // issue the chat request
//	}
package session
