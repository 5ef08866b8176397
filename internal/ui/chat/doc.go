// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea chat screen of bradai.

The engine never talks to Bubble Tea directly. It drives a Renderer, which
records view state under a mutex and signals a one-slot dirty channel; the
program waits on that channel with a command and copies the state into the
components on the Update goroutine.

# Key Types

Model - the tea.Model: header, message viewport, input box, sidebar and
status bar.

Renderer - engine.Renderer implementation feeding Model.

KeyMap - the keyboard bindings.

# Usage

	render := chat.NewRenderer()
	eng := engine.New(sess, client, render, engine.Options{})
	err := chat.Run(ctx, eng, render, theme, chat.Options{
		MaxInputRows:   cfg.UI.MaxInputRows,
		HealthInterval: cfg.Chat.HealthInterval(),
	})
*/
package chat
