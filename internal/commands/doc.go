// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system shared by the TUI and
// the line REPL.
//
// Handlers never block. Anything that talks to the backend is returned as
// Result.Run for the front end to schedule, and front end effects (quit,
// help, confirm-then-clear) are returned as an Action.
//
// # Key Types
//
//   - Registry: command registry with all built-in commands
//   - Parser / ParseResult: command name and quoted argument splitting
//   - Env: the engine and export options handlers act on
//   - Result: requested Action plus optional blocking Run
//
// # Built-in Commands
//
//   - /help, /quit, /clear
//   - /model [id]: switch model or list models
//   - /history: server-side history summary
//   - /export [path] [html|md|json]: write the transcript; the format
//     defaults to the path's extension
//   - /status: poll backend health now
//
// # Usage
//
//	res, ok := registry.Execute(&commands.Env{Engine: eng}, input)
//	if !ok {
//	    // plain chat message
//	}
//	if res.Run != nil {
//	    go res.Run(ctx)
//	}
package commands
