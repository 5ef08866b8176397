// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/commands"
	"github.com/jeranaias/bradai-tui/internal/config"
	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/ui/chat"
	"github.com/jeranaias/bradai-tui/internal/ui/components"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// COMMANDS
// =============================================================================

func newChatCommand(rs *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start a line-oriented chat session",
		Long: `Starts an interactive chat that reads one line at a time, with
input history. Slash commands work as in the full-screen chat; type /help
for the list and /quit or Ctrl+D to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), rs.app)
		},
	}
}

// runTUI starts the full-screen chat, or the REPL when the terminal cannot
// host it.
func runTUI(ctx context.Context, app *App) error {
	if !IsTTY() || !IsStdoutTTY() {
		return runREPL(ctx, app)
	}

	render := chat.NewRenderer()
	eng := app.NewEngine(render)
	return chat.Run(ctx, eng, render, app.Theme, chat.Options{
		Registry:       commands.NewRegistry(),
		ExportOptions:  app.ExportOptions(),
		MaxInputRows:   app.Config.UI.MaxInputRows,
		HealthInterval: app.Config.Chat.HealthInterval(),
		HideSidebar:    !app.Config.UI.ShowSidebar,
		Logger:         app.Logger,
	})
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the part of liner.State the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chat_history")
}

func loadHistory(line *liner.State, path string) {
	if f, err := os.Open(path); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
}

// saveHistory persists history owner-only.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}

// =============================================================================
// REPL
// =============================================================================

func runREPL(ctx context.Context, app *App) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	history := historyPath()
	loadHistory(line, history)
	defer func() {
		saveHistory(line, history)
		line.Close()
	}()

	width := GetTerminalWidth()
	glamourStyle := "notty"
	if ColorsEnabled() {
		glamourStyle = app.Theme.GlamourStyle()
	}

	render := &lineRenderer{
		out:      app.Out,
		width:    width,
		theme:    app.Theme,
		progress: IsStdoutTTY(),
	}
	eng := app.NewEngine(render)

	r := &repl{
		eng:      eng,
		registry: commands.NewRegistry(),
		env:      &commands.Env{Engine: eng, ExportOptions: app.ExportOptions()},
		in:       line,
		out:      app.Out,
		width:    width,
		glamour:  glamourStyle,
		log:      app.Logger.Named("repl"),
	}

	if err := eng.Start(ctx); err != nil {
		r.log.Warn("catalog load failed", zap.Error(err))
	}
	// The first result is printed before the prompt; the poller then only
	// reports changes.
	eng.PollHealth(ctx)
	poller := eng.StartHealthPoller(ctx, app.Config.Chat.HealthInterval())
	defer poller.Stop()

	if info, ok := eng.CurrentModelInfo(); ok {
		fmt.Fprintln(app.Out, styles.RenderInfo("Model: "+modelLabel(info.Name, info.Version)))
	}
	fmt.Fprintln(app.Out, DimStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Fprintln(app.Out)

	return r.run(ctx)
}

// repl is the line-oriented chat loop.
type repl struct {
	eng      *engine.Engine
	registry *commands.Registry
	env      *commands.Env
	in       lineReader
	out      io.Writer
	width    int
	glamour  string
	log      *zap.Logger
}

func (r *repl) run(ctx context.Context) error {
	prompt := PromptStyle.Render("you>") + " "
	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.in.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}
		r.in.AppendHistory(input)

		if res, ok := r.registry.Execute(r.env, text); ok {
			if r.apply(ctx, res) {
				return nil
			}
			continue
		}

		// Failures are already printed as error messages.
		if err := r.eng.SendUserTurn(ctx, text); err != nil {
			r.log.Debug("chat turn failed", zap.Error(err))
		}
	}
}

// apply carries out a command result and reports whether to quit.
func (r *repl) apply(ctx context.Context, res commands.Result) bool {
	switch res.Action {
	case commands.ActionQuit:
		return true
	case commands.ActionHelp:
		md := r.registry.HelpMarkdown(nil)
		fmt.Fprintln(r.out, components.RenderMarkdown(md, r.width, r.glamour))
		fmt.Fprintln(r.out)
	case commands.ActionClear:
		r.eng.ClearConversation(r.confirm)
	}

	if res.Run != nil {
		if err := res.Run(ctx); err != nil {
			r.log.Debug("command failed", zap.Error(err))
		}
	}
	return false
}

// confirm asks a y/N question on the input line.
func (r *repl) confirm(question string) bool {
	answer, err := r.in.Prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// =============================================================================
// LINE RENDERER
// =============================================================================

// lineRenderer prints conversation updates as they happen. The user's own
// lines are not echoed.
type lineRenderer struct {
	engine.NopRenderer

	out      io.Writer
	width    int
	theme    *styles.Theme
	progress bool

	// Last connection state printed; valid once statusSeen is set.
	statusSeen bool
	connected  bool
}

func (r *lineRenderer) AppendMessage(v engine.MessageView) {
	if v.Role == model.RoleUser {
		return
	}

	body := components.RenderRichText(v.Body, r.width, r.theme)
	switch {
	case v.IsError:
		fmt.Fprintln(r.out, ErrorStyle.Render("!")+" "+body)
	case v.Role == model.RoleAssistant:
		fmt.Fprintln(r.out, SenderStyle.Render(v.Sender+">"))
		fmt.Fprintln(r.out, body)
		for _, f := range v.Footer {
			fmt.Fprintln(r.out, DimStyle.Render(f))
		}
	default:
		fmt.Fprintln(r.out, DimStyle.Render(body))
	}
	fmt.Fprintln(r.out)
}

func (r *lineRenderer) ShowPlaceholder(p engine.Placeholder) {
	fmt.Fprintln(r.out, TitleStyle.Render(p.Title))
}

// ShowStatus prints the first health result and then only changes in
// connectivity.
func (r *lineRenderer) ShowStatus(st engine.Status) {
	if r.statusSeen && r.connected == st.Connected {
		return
	}
	r.statusSeen = true
	r.connected = st.Connected
	fmt.Fprintln(r.out, styles.RenderStatus(st.Connected, "Backend "+st.Label()))
}

func (r *lineRenderer) SetBusy(busy bool) {
	if busy && r.progress {
		fmt.Fprintln(r.out, DimStyle.Render("Brad AI is thinking..."))
	}
}

func modelLabel(name, version string) string {
	if version == "" {
		return name
	}
	return name + " v" + version
}
