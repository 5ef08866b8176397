// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/session"
	"github.com/jeranaias/bradai-tui/internal/testutil"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fixture struct {
	m       Model
	engine  *engine.Engine
	backend *testutil.Backend
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := testutil.NewBackend(t)
	backend.SetModels("m1",
		model.ModelDescriptor{ID: "m1", Name: "Alpha", Version: "1.0"},
		model.ModelDescriptor{ID: "m2", Name: "Beta", Version: "2.0"},
	)
	client := api.NewClient(&api.ClientConfig{BaseURL: backend.URL()})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	render := NewRenderer()
	eng := engine.New(session.NewWithID("user_tui", "m1"), client, render, engine.Options{})
	require.NoError(t, eng.Start(ctx))

	f := &fixture{
		m:       New(ctx, eng, render, styles.NewTheme(styles.ModeDark), Options{}),
		engine:  eng,
		backend: backend,
	}
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	f.send(t, RedrawMsg{})
	return f
}

// send feeds msg to the model and returns the command it produced.
func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	f.m = m
	return cmd
}

func (f *fixture) typeText(t *testing.T, s string) {
	t.Helper()
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (f *fixture) enter(t *testing.T) tea.Cmd {
	t.Helper()
	return f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
}

func (f *fixture) view() string {
	return ansi.Strip(f.m.View())
}

// =============================================================================
// RENDERER TESTS
// =============================================================================

func TestRenderer_State(t *testing.T) {
	r := NewRenderer()

	r.ShowPlaceholder(engine.WelcomePlaceholder)
	s := r.snapshot()
	require.NotNil(t, s.placeholder)
	assert.Equal(t, "Welcome to Brad AI", s.placeholder.Title)

	r.AppendMessage(engine.MessageView{ID: "1", Body: "hi"})
	r.AppendMessage(engine.MessageView{ID: "2", Body: "there"})
	s = r.snapshot()
	assert.Nil(t, s.placeholder)
	assert.Len(t, s.messages, 2)
	assert.Equal(t, uint64(2), s.appended)

	// Snapshots do not share the message slice.
	s.messages[0].Body = "changed"
	assert.Equal(t, "hi", r.snapshot().messages[0].Body)

	r.ShowPlaceholder(engine.ClearedPlaceholder)
	s = r.snapshot()
	assert.Empty(t, s.messages)
	assert.Equal(t, "Chat Cleared", s.placeholder.Title)

	r.SetBusy(true)
	assert.True(t, r.snapshot().busy)
}

func TestRenderer_WaitForRedraw(t *testing.T) {
	r := NewRenderer()

	// Many updates collapse into one pending redraw.
	for i := 0; i < 5; i++ {
		r.ShowStatus(engine.Status{Connected: true, ActiveUsers: i})
	}
	assert.Len(t, r.dirty, 1)

	msg := r.WaitForRedraw(context.Background())()
	assert.IsType(t, RedrawMsg{}, msg)
	assert.Len(t, r.dirty, 0)
	assert.Equal(t, 4, r.snapshot().status.ActiveUsers)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, r.WaitForRedraw(ctx)())
}

// =============================================================================
// MODEL TESTS
// =============================================================================

func TestModel_StartupView(t *testing.T) {
	f := newFixture(t)

	got := f.view()
	assert.Contains(t, got, "Alpha v1.0")
	assert.Contains(t, got, "Beta v2.0")
	assert.Contains(t, got, "Welcome to Brad AI")
	assert.Contains(t, got, "Your Profile")
	assert.Equal(t, StateInput, f.m.State())
}

func TestModel_SubmitTurn(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "hello")
	cmd := f.enter(t)
	require.NotNil(t, cmd)
	assert.Empty(t, f.m.InputValue())

	msgs := f.engine.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)

	done, ok := cmd().(TurnDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.Err)

	f.send(t, RedrawMsg{})
	got := f.view()
	assert.Contains(t, got, "hello")
	assert.Contains(t, got, "Echo: hello")
	assert.NotContains(t, got, "Welcome to Brad AI")
	assert.False(t, f.m.Busy())
}

func TestModel_SubmitDisabledWhileBusy(t *testing.T) {
	f := newFixture(t)
	release := f.backend.HoldChat()
	defer release()

	f.typeText(t, "first")
	cmd := f.enter(t)
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	f.send(t, RedrawMsg{})
	assert.True(t, f.m.Busy())

	f.typeText(t, "second")
	assert.Nil(t, f.enter(t))
	assert.Equal(t, "second", f.m.InputValue())
	assert.Len(t, f.engine.Messages(), 1)

	release()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("turn did not complete")
	}

	f.send(t, RedrawMsg{})
	assert.False(t, f.m.Busy())
	assert.Len(t, f.engine.Messages(), 2)
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	f := newFixture(t)
	f.typeText(t, "   ")
	assert.Nil(t, f.enter(t))
	assert.Empty(t, f.engine.Messages())
}

func TestModel_InputGrows(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 1, f.m.input.Height())

	f.typeText(t, "a")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	f.typeText(t, "b")
	assert.Equal(t, "a\nb", f.m.InputValue())
	assert.Equal(t, 2, f.m.input.Height())

	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlJ})
	f.typeText(t, "c")
	assert.Equal(t, 3, f.m.input.Height())

	for i := 0; i < 10; i++ {
		f.send(t, tea.KeyMsg{Type: tea.KeyCtrlJ})
	}
	assert.Equal(t, DefaultMaxInputRows, f.m.input.Height())

	// Sending resets the box to one row.
	cmd := f.enter(t)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, f.m.input.Height())
	cmd()
}

func TestModel_ClearConfirm(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.SendUserTurn(context.Background(), "hello"))

	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, StateConfirmClear, f.m.State())
	assert.Contains(t, f.view(), engine.ClearPrompt)

	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Equal(t, StateInput, f.m.State())
	assert.Len(t, f.engine.Messages(), 2)

	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlL})
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Equal(t, StateInput, f.m.State())
	assert.Empty(t, f.engine.Messages())

	f.send(t, RedrawMsg{})
	assert.Contains(t, f.view(), "Chat Cleared")
}

func TestModel_ModelSelection(t *testing.T) {
	f := newFixture(t)

	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateModels, f.m.State())

	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInput, f.m.State())
	assert.Equal(t, "m2", f.engine.CurrentModel())

	f.send(t, RedrawMsg{})
	assert.Contains(t, f.view(), "> Beta v2.0")

	// Esc leaves the list without changing the model.
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	f.send(t, tea.KeyMsg{Type: tea.KeyUp})
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateInput, f.m.State())
	assert.Equal(t, "m2", f.engine.CurrentModel())
}

func TestModel_SlashCommands(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "/model m2")
	assert.Nil(t, f.enter(t))
	assert.Equal(t, "m2", f.engine.CurrentModel())
	assert.Empty(t, f.m.InputValue())

	f.typeText(t, "/bogus")
	f.enter(t)
	msgs := f.engine.Messages()
	require.NotEmpty(t, msgs)
	assert.True(t, msgs[len(msgs)-1].IsError)

	f.typeText(t, "/clear")
	f.enter(t)
	assert.Equal(t, StateConfirmClear, f.m.State())
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})

	f.typeText(t, "/status")
	cmd := f.enter(t)
	require.NotNil(t, cmd)
	res, ok := cmd().(CommandDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "/status", res.Name)
	assert.NoError(t, res.Err)

	f.typeText(t, "/quit")
	cmd = f.enter(t)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Help(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "/help")
	f.enter(t)
	assert.Equal(t, StateHelp, f.m.State())
	assert.Contains(t, f.view(), "Type a message to chat")

	// Messages arriving while help is open show up after it closes.
	f.engine.Notify("while you were reading")
	f.send(t, RedrawMsg{})
	assert.NotContains(t, f.view(), "while you were reading")

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateInput, f.m.State())
	assert.Contains(t, f.view(), "while you were reading")
}

func TestModel_CtrlCQuits(t *testing.T) {
	f := newFixture(t)
	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_NarrowLayoutHidesSidebar(t *testing.T) {
	f := newFixture(t)
	f.send(t, tea.WindowSizeMsg{Width: 50, Height: 30})

	assert.NotContains(t, f.view(), "Your Profile")
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateInput, f.m.State())
}

func TestInputRows(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  int
	}{
		{"", 10, 1},
		{"hello", 10, 1},
		{"0123456789abc", 10, 2},
		{"a\nb\nc", 10, 3},
		{"a\n\n", 10, 3},
		{"hello", 0, 5},
	}

	for _, tt := range tests {
		if got := inputRows(tt.value, tt.width); got != tt.want {
			t.Errorf("inputRows(%q, %d) = %d, want %d", tt.value, tt.width, got, tt.want)
		}
	}
}
