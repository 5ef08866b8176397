// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the chat client's conversation and state
// engine.
//
// The engine owns a session.Session and talks to the backend through the
// Backend interface. Everything it shows goes through a Renderer, which is
// the only piece that touches the terminal; the TUI and the line REPL each
// provide one.
//
// # Key Types
//
//   - Engine: catalog, conversation, turn, profile and health operations
//   - Renderer: presentation adapter called with render-ready views
//   - Turn: one submitted user message awaiting its reply
//   - HealthPoller: handle of the cancellable health poll loop
//
// # Usage
//
//	eng := engine.New(sess, client, renderer, engine.Options{Logger: log})
//	_ = eng.Start(ctx)
//	poller := eng.StartHealthPoller(ctx, 30*time.Second)
//	defer poller.Stop()
//
//	if err := eng.SendUserTurn(ctx, "Hello"); errors.Is(err, engine.ErrTurnInFlight) {
//	    // another turn is still open
//	}
//
// Front ends that must not block, such as a Bubble Tea update loop, call
// Submit synchronously and run Turn.Await in the background.
package engine
