// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// =============================================================================
// PROGRAM MESSAGES
// =============================================================================

// RedrawMsg signals that the renderer has new state to show.
type RedrawMsg struct{}

// StartedMsg is sent when the initial catalog and profile loads finish.
type StartedMsg struct {
	Err error
}

// TurnDoneMsg is sent when a chat turn has been answered or has failed.
// The outcome is already in the conversation.
type TurnDoneMsg struct {
	Err error
}

// CommandDoneMsg is sent when a slash command's background work finishes.
type CommandDoneMsg struct {
	Name string
	Err  error
}
