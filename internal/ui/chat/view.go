// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/bradai-tui/internal/commands"
	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/ui/components"
	"github.com/jeranaias/bradai-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.inputView())
	body := main
	if m.sidebarWidth() > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, m.sidebar.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.statusBar.View(m.now()),
	)
}

func (m Model) inputView() string {
	width := m.mainWidth()

	if m.state == StateConfirmClear {
		box := m.theme.ConfirmBox
		return box.Width(width - box.GetHorizontalBorderSize()).
			Render(engine.ClearPrompt + " (y/n)")
	}

	style := m.theme.InputFocused
	switch {
	case m.busy:
		style = m.theme.InputDisabled
	case m.state != StateInput:
		style = m.theme.InputContainer
	}
	return style.Width(width - style.GetHorizontalBorderSize()).Render(m.input.View())
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) sidebarWidth() int {
	if m.hideSidebar {
		return 0
	}
	return m.theme.SidebarWidth()
}

func (m Model) mainWidth() int {
	return m.width - m.sidebarWidth()
}

// layout sizes every component from the window size.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.theme.SetSize(m.width, m.height)

	mainW := m.mainWidth()
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)

	frame := m.theme.InputContainer
	m.input.SetWidth(max(mainW-frame.GetHorizontalFrameSize(), 10))
	m.fitInput()

	inputH := m.input.Height() + frame.GetVerticalFrameSize()
	headerH := lipgloss.Height(m.header.View())
	vpH := max(m.height-headerH-inputH-1, 1)

	m.viewport.Width = mainW
	m.viewport.Height = vpH
	m.sidebar.SetSize(m.sidebarWidth(), vpH+inputH)
}

// fitInput grows or shrinks the input box to its content, between one row
// and maxInputRows. It reports whether the height changed.
func (m *Model) fitInput() bool {
	rows := min(max(inputRows(m.input.Value(), m.input.Width()), 1), m.maxInputRows)
	if rows == m.input.Height() {
		return false
	}
	m.input.SetHeight(rows)
	return true
}

// inputRows is the number of screen rows value needs when soft wrapped at
// width.
func inputRows(value string, width int) int {
	width = max(width, 1)
	rows := 0
	for _, line := range strings.Split(value, "\n") {
		rows += max((util.StringWidth(line)+width-1)/width, 1)
	}
	return rows
}

// refreshViewport re-renders the message log into the viewport.
func (m *Model) refreshViewport(follow bool) {
	if m.state == StateHelp {
		return
	}
	m.messages.SetWidth(m.viewport.Width)
	m.viewport.SetContent(m.messages.View())
	if follow {
		m.viewport.GotoBottom()
	}
}

// showHelp renders the help screen into the viewport.
func (m *Model) showHelp() {
	md := m.registry.HelpMarkdown(commands.KeyBindings)
	m.help = components.RenderMarkdown(md, m.viewport.Width-2, m.theme.GlamourStyle())
	m.viewport.SetContent(m.help)
	m.viewport.GotoTop()
}
