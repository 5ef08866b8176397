// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/commands"
	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/export"
	"github.com/jeranaias/bradai-tui/internal/ui/components"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is what the keyboard is currently driving.
type State int

const (
	// StateInput is normal typing in the input box.
	StateInput State = iota

	// StateModels is keyboard navigation of the sidebar model list.
	StateModels

	// StateConfirmClear is the y/n prompt before clearing.
	StateConfirmClear

	// StateHelp shows the help screen.
	StateHelp
)

// DefaultMaxInputRows caps the input box height when Options leaves it 0.
const DefaultMaxInputRows = 6

// Options configures the chat screen. Zero values get defaults.
type Options struct {
	// Registry resolves slash commands (default: commands.NewRegistry()).
	Registry *commands.Registry

	// ExportOptions configures /export.
	ExportOptions *export.Options

	// MaxInputRows caps the input box height.
	MaxInputRows int

	// HealthInterval is the delay between backend health checks.
	HealthInterval time.Duration

	// HideSidebar hides the models, insights and profile panels at every
	// width.
	HideSidebar bool

	Logger *zap.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	render *Renderer
	theme  *styles.Theme
	keys   KeyMap
	log    *zap.Logger

	registry *commands.Registry
	env      *commands.Env

	// Components
	header    *components.Header
	sidebar   *components.Sidebar
	messages  *components.MessageList
	statusBar *components.StatusBar
	viewport  viewport.Model
	input     textarea.Model
	spinner   spinner.Model

	state        State
	busy         bool
	seen         uint64
	maxInputRows int
	hideSidebar  bool
	help         string

	width  int
	height int
	ready  bool

	now func() time.Time
}

// New creates the chat screen for eng, whose renderer must be render.
func New(ctx context.Context, eng *engine.Engine, render *Renderer, theme *styles.Theme, opts Options) Model {
	registry := opts.Registry
	if registry == nil {
		registry = commands.NewRegistry()
	}
	maxRows := opts.MaxInputRows
	if maxRows <= 0 {
		maxRows = DefaultMaxInputRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textarea.New()
	input.Placeholder = "Type your message... (/help for commands)"
	input.Prompt = ""
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(1)
	input.KeyMap.InsertNewline = DefaultKeyMap().Newline
	input.FocusedStyle.CursorLine = lipgloss.NewStyle()
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Spinner),
	)

	return Model{
		ctx:    ctx,
		engine: eng,
		render: render,
		theme:  theme,
		keys:   DefaultKeyMap(),
		log:    logger.Named("tui"),

		registry: registry,
		env:      &commands.Env{Engine: eng, ExportOptions: opts.ExportOptions},

		header:    components.NewHeader(theme),
		sidebar:   components.NewSidebar(theme),
		messages:  components.NewMessageList(theme),
		statusBar: components.NewStatusBar(theme),
		viewport:  viewport.New(80, 20),
		input:     input,
		spinner:   spin,

		maxInputRows: maxRows,
		hideSidebar:  opts.HideSidebar,
		now:          time.Now,
	}
}

// Init starts the engine and begins listening for renderer updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.render.WaitForRedraw(m.ctx),
		m.startEngine(),
	)
}

func (m Model) startEngine() tea.Cmd {
	ctx, eng := m.ctx, m.engine
	return func() tea.Msg {
		return StartedMsg{Err: eng.Start(ctx)}
	}
}

// State returns the current keyboard state.
func (m Model) State() State {
	return m.state
}

// Busy reports whether a chat turn is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// InputValue returns the text in the input box.
func (m Model) InputValue() string {
	return m.input.Value()
}

// =============================================================================
// PROGRAM
// =============================================================================

// Run starts the health poller and runs the chat screen until the user
// quits or ctx is done. eng must have been created with render.
func Run(ctx context.Context, eng *engine.Engine, render *Renderer, theme *styles.Theme, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poller := eng.StartHealthPoller(ctx, opts.HealthInterval)
	defer poller.Stop()

	p := tea.NewProgram(
		New(ctx, eng, render, theme, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
