// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/jeranaias/bradai-tui/internal/export"
)

// ErrUnknownCommand is reported for a slash command that is not registered.
var ErrUnknownCommand = errors.New("unknown command")

// =============================================================================
// DISPATCH
// =============================================================================

// Execute parses input and runs the matching handler. ok is false when
// input is not a slash command and should be sent as a chat message.
// Unknown commands and argument errors are reported as error messages in
// the conversation.
func (r *Registry) Execute(env *Env, input string) (res Result, ok bool) {
	parsed := NewParser(r).Parse(input)
	if !parsed.IsCommand {
		return Result{}, false
	}

	if parsed.Command == nil {
		env.Engine.NotifyError("Error: " + parsed.Error.Error() + ". Type /help for a list of commands.")
		return Result{}, true
	}
	if err := ValidateArgs(parsed.Command, parsed.Args); err != nil {
		env.Engine.NotifyError("Error: " + err.Error())
		return Result{}, true
	}
	return parsed.Command.Handler(env, parsed.Args), true
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelp(*Env, []string) Result {
	return Result{Action: ActionHelp}
}

func handleQuit(*Env, []string) Result {
	return Result{Action: ActionQuit}
}

func handleClear(*Env, []string) Result {
	return Result{Action: ActionClear}
}

func handleHistory(env *Env, _ []string) Result {
	return Result{Run: env.Engine.ShowHistory}
}

func handleStatus(env *Env, _ []string) Result {
	return Result{Run: func(ctx context.Context) error {
		st := env.Engine.PollHealth(ctx)
		msg := "Backend " + st.Label()
		if st.Service != "" {
			msg += " (" + st.Service + ")"
		}
		if st.Connected {
			env.Engine.Notify(msg)
			return nil
		}
		env.Engine.NotifyError(msg)
		return nil
	}}
}

func handleModel(env *Env, args []string) Result {
	eng := env.Engine
	if len(args) == 0 {
		eng.Notify(modelListing(env))
		return Result{}
	}

	// SelectModel ignores unknown ids; the command still tells the user.
	if !eng.SelectModel(args[0]) {
		eng.NotifyError("Unknown model: " + args[0] + ". Type /model to list models.")
	}
	return Result{}
}

func modelListing(env *Env) string {
	if !env.Engine.CatalogLoaded() {
		return "No models loaded."
	}
	entries := env.Engine.CatalogEntries()

	var b strings.Builder
	b.WriteString("Available models:")
	for _, e := range entries {
		b.WriteString("\n  ")
		if e.Active {
			b.WriteString("* ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(e.ID)
		if e.Name != "" && e.Name != e.ID {
			b.WriteString(" (" + e.Name + ")")
		}
	}
	return b.String()
}

func handleExport(env *Env, args []string) Result {
	var path, format string
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		format = strings.ToLower(args[1])
	}

	eng := env.Engine
	t := &export.Transcript{
		SessionID: eng.Session().ID(),
		CreatedAt: eng.Session().StartedAt(),
		Messages:  eng.Messages(),
	}
	if info, ok := eng.CurrentModelInfo(); ok {
		t.Model = info.Name
	}

	return Result{Run: func(context.Context) error {
		written, err := export.ToFileAs(t, path, format, env.ExportOptions)
		if errors.Is(err, export.ErrEmptyTranscript) {
			eng.NotifyError("Nothing to export yet.")
			return err
		}
		if err != nil {
			eng.NotifyError("Export failed: " + err.Error())
			return err
		}
		eng.Notify("Exported conversation to " + written)
		return nil
	}}
}
