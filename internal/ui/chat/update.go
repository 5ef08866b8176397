// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/commands"
	"github.com/jeranaias/bradai-tui/internal/engine"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		if m.state == StateHelp {
			m.showHelp()
		} else {
			m.refreshViewport(false)
		}
		return m, nil

	case RedrawMsg:
		return m.handleRedraw()

	case StartedMsg:
		if msg.Err != nil {
			m.log.Debug("startup catalog load failed", zap.Error(msg.Err))
		}
		return m, nil

	case TurnDoneMsg:
		if msg.Err != nil {
			m.log.Debug("chat turn failed", zap.Error(msg.Err))
		}
		return m, nil

	case CommandDoneMsg:
		if msg.Err != nil {
			m.log.Debug("command failed", zap.String("command", msg.Name), zap.Error(msg.Err))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.Spinner = m.spinner.View()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other textarea internals.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleRedraw copies the renderer state into the components.
func (m Model) handleRedraw() (tea.Model, tea.Cmd) {
	s := m.render.snapshot()

	m.messages.SetMessages(s.messages, s.placeholder)
	if s.hasModel {
		m.header.SetModel(s.model)
	}
	m.sidebar.Models.SetEntries(s.catalog)
	if s.hasInsight {
		m.sidebar.SetInsight(s.insight)
	}
	m.sidebar.SetProfile(s.profile)
	if s.hasStatus {
		m.statusBar.SetStatus(s.status)
	}

	cmds := []tea.Cmd{m.render.WaitForRedraw(m.ctx)}
	if s.busy && !m.busy {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.busy = s.busy
	m.statusBar.Busy = s.busy
	m.statusBar.Spinner = m.spinner.View()

	follow := s.appended != m.seen
	m.seen = s.appended

	m.layout()
	m.refreshViewport(follow)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.state {
	case StateConfirmClear:
		return m.handleConfirmKey(msg)
	case StateModels:
		return m.handleModelKey(msg)
	case StateHelp:
		return m.handleHelpKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Clear):
		m.state = StateConfirmClear
		return m, nil

	case key.Matches(msg, m.keys.Models):
		if m.sidebarWidth() == 0 || len(m.sidebar.Models.Entries) == 0 {
			return m, nil
		}
		m.state = StateModels
		m.sidebar.Models.Focus()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.fitInput() {
		m.layout()
		m.refreshViewport(false)
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.state = StateInput
		m.engine.ClearConversation(engine.AutoConfirm)
	case key.Matches(msg, m.keys.No):
		m.state = StateInput
	}
	return m, nil
}

func (m Model) handleModelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.Models.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.sidebar.Models.MoveDown()
	case key.Matches(msg, m.keys.Select):
		if id, ok := m.sidebar.Models.Selected(); ok {
			m.engine.SelectModel(id)
		}
		return m.focusInput()
	case key.Matches(msg, m.keys.Back):
		return m.focusInput()
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "?":
		m.state = StateInput
		m.refreshViewport(false)
		return m, m.input.Focus()
	case "pgup", "up", "k":
		m.viewport.ViewUp()
	case "pgdown", "down", "j":
		m.viewport.ViewDown()
	}
	return m, nil
}

func (m Model) focusInput() (tea.Model, tea.Cmd) {
	m.state = StateInput
	m.sidebar.Models.Blur()
	return m, m.input.Focus()
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submit runs a slash command, or sends the input as a chat turn. While a
// turn is in flight chat text stays in the input box.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if res, ok := m.registry.Execute(m.env, text); ok {
		m.resetInput()
		return m.applyResult(commands.ExtractCommandName(text), res)
	}

	turn, err := m.engine.Submit(text)
	if err != nil {
		m.log.Debug("submit rejected", zap.Error(err))
		return m, nil
	}
	m.resetInput()

	ctx := m.ctx
	return m, func() tea.Msg {
		return TurnDoneMsg{Err: turn.Await(ctx)}
	}
}

func (m Model) applyResult(name string, res commands.Result) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if res.Run != nil {
		ctx, run := m.ctx, res.Run
		cmd = func() tea.Msg {
			return CommandDoneMsg{Name: name, Err: run(ctx)}
		}
	}

	switch res.Action {
	case commands.ActionQuit:
		return m, tea.Quit
	case commands.ActionHelp:
		m.state = StateHelp
		m.input.Blur()
		m.showHelp()
	case commands.ActionClear:
		m.state = StateConfirmClear
	}
	return m, cmd
}

func (m *Model) resetInput() {
	m.input.Reset()
	if m.fitInput() {
		m.layout()
		m.refreshViewport(false)
	}
}
