// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/commands"
	"github.com/jeranaias/bradai-tui/internal/config"
	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/session"
	"github.com/jeranaias/bradai-tui/internal/testutil"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func newTestBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.SetModels("m1",
		model.ModelDescriptor{ID: "m1", Name: "Alpha", Version: "1.0", Description: "first"},
		model.ModelDescriptor{ID: "m2", Name: "Beta", Version: "2.0"},
	)
	return backend
}

// runCLI executes the command tree in an isolated home directory.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return ansi.Strip(out.String()), err
}

func decodeJSON(t *testing.T, out string) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk(t *testing.T) {
	backend := newTestBackend(t)

	out, err := runCLI(t, "", "--api-url", backend.URL(), "ask", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello\n", out)

	calls := backend.ChatCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "hello", calls[0].Message)
	assert.Equal(t, "m1", calls[0].Model)
	assert.Equal(t, 1, backend.Hits("models"))
	assert.Equal(t, 0, backend.Hits("health"))
}

func TestAsk_ModelFlag(t *testing.T) {
	backend := newTestBackend(t)

	_, err := runCLI(t, "", "--api-url", backend.URL(), "-m", "m2", "ask", "hi", "there")
	require.NoError(t, err)

	calls := backend.ChatCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "m2", calls[0].Model)
	assert.Equal(t, "hi there", calls[0].Message)
}

func TestAsk_Stdin(t *testing.T) {
	if IsTTY() {
		t.Skip("stdin is a terminal")
	}
	backend := newTestBackend(t)

	out, err := runCLI(t, "from a pipe\n", "--api-url", backend.URL(), "ask")
	require.NoError(t, err)
	assert.Contains(t, out, "Echo: from a pipe")
}

func TestAsk_EmptyMessage(t *testing.T) {
	if IsTTY() {
		t.Skip("stdin is a terminal")
	}
	backend := newTestBackend(t)

	_, err := runCLI(t, "   \n", "--api-url", backend.URL(), "ask")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Empty(t, backend.ChatCalls())
}

func TestAsk_JSON(t *testing.T) {
	backend := newTestBackend(t)

	out, err := runCLI(t, "", "--api-url", backend.URL(), "ask", "--json", "hello")
	require.NoError(t, err)

	resp := decodeJSON(t, out)
	assert.True(t, resp.Success)
	assert.Equal(t, "ask", resp.Command)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data = %T", resp.Data)
	assert.Equal(t, "Echo: hello", data["response"])
	assert.Equal(t, "m1", data["model"])
	assert.Equal(t, "1.0", data["model_version"])
}

func TestAsk_Unreachable(t *testing.T) {
	_, err := runCLI(t, "", "--api-url", "http://127.0.0.1:1/api", "ask", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotReachable), "err = %v", err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "ask", cmdErr.Command)
}

// =============================================================================
// MODELS AND STATUS
// =============================================================================

func TestModels(t *testing.T) {
	backend := newTestBackend(t)

	out, err := runCLI(t, "", "--api-url", backend.URL(), "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* m1"), "line 0 = %q", lines[0])
	assert.Contains(t, lines[0], "Alpha v1.0")
	assert.Contains(t, lines[0], "first")
	assert.True(t, strings.HasPrefix(lines[1], "  m2"), "line 1 = %q", lines[1])
	assert.Contains(t, lines[1], "Beta v2.0")
}

func TestModels_JSON(t *testing.T) {
	backend := newTestBackend(t)

	out, err := runCLI(t, "", "--api-url", backend.URL(), "-m", "m2", "models", "--json")
	require.NoError(t, err)

	resp := decodeJSON(t, out)
	require.True(t, resp.Success)
	rows, ok := resp.Data.([]any)
	require.True(t, ok, "data = %T", resp.Data)
	require.Len(t, rows, 2)

	second := rows[1].(map[string]any)
	assert.Equal(t, "m2", second["id"])
	assert.Equal(t, true, second["active"])
}

func TestModels_Unreachable(t *testing.T) {
	out, err := runCLI(t, "", "--api-url", "http://127.0.0.1:1/api", "models", "--json")
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))

	resp := decodeJSON(t, out)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name      string
		health    string
		users     int
		wantErr   bool
		wantLabel string
	}{
		{"healthy", "healthy", 2, false, "connected, 2 users"},
		{"degraded", "degraded", 0, true, "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newTestBackend(t)
			backend.SetHealth(tt.health, tt.users)

			out, err := runCLI(t, "", "--api-url", backend.URL(), "status")
			assert.Equal(t, 1, backend.Hits("health"))
			assert.Contains(t, out, backend.URL())
			assert.Contains(t, out, tt.wantLabel)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBackendDown)
				assert.Equal(t, ExitNetworkError, GetExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Brad AI Chatbot API")
		})
	}
}

func TestStatus_JSON(t *testing.T) {
	backend := newTestBackend(t)
	backend.SetHealth("healthy", 3)

	out, err := runCLI(t, "", "--api-url", backend.URL(), "status", "--json")
	require.NoError(t, err)

	resp := decodeJSON(t, out)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["connected"])
	assert.EqualValues(t, 3, data["active_users"])
	assert.EqualValues(t, 2, data["models_loaded"])
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")

	out, err := runCLI(t, "", "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	// Without --config the default location under $HOME is printed.
	out, err = runCLI(t, "", "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join(".bradai", "config.toml")), "out = %q", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(config.Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = runCLI(t, "", "--config", path, "config", "init")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0o600))
	_, err = runCLI(t, "", "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	cfg, err = config.Load(config.Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestConfigShow(t *testing.T) {
	out, err := runCLI(t, "", "--api-url", "http://example.com/api", "--theme", "light", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `base_url = "http://example.com/api"`)
	assert.Contains(t, out, `theme = "light"`)
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad theme", []string{"--theme", "neon", "config", "show"}},
		{"bad url", []string{"--api-url", "not a url", "config", "show"}},
		{"missing file", []string{"--config", "/nonexistent/bradai.toml", "config", "show"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			if got := GetExitCode(err); got != ExitConfigError {
				t.Errorf("GetExitCode(%v) = %d, want %d", err, got, ExitConfigError)
			}
		})
	}
}

func TestUnknownFlag(t *testing.T) {
	_, err := runCLI(t, "", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// REPL
// =============================================================================

// scriptReader feeds the REPL a fixed list of lines, then EOF.
type scriptReader struct {
	lines   []string
	prompts []string
	history []string
}

func (s *scriptReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func newTestREPL(t *testing.T, backend *testutil.Backend, lines ...string) (*repl, *scriptReader, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	theme := styles.NewTheme(styles.ModeDark)
	render := &lineRenderer{out: &out, width: 80, theme: theme}
	client := api.NewClient(&api.ClientConfig{BaseURL: backend.URL()})
	eng := engine.New(session.NewWithID("user_repl", "m1"), client, render, engine.Options{})
	require.NoError(t, eng.LoadCatalog(context.Background()))

	reader := &scriptReader{lines: lines}
	return &repl{
		eng:      eng,
		registry: commands.NewRegistry(),
		env:      &commands.Env{Engine: eng},
		in:       reader,
		out:      &out,
		width:    80,
		glamour:  "notty",
		log:      zap.NewNop(),
	}, reader, &out
}

func TestREPL_Conversation(t *testing.T) {
	backend := newTestBackend(t)
	r, reader, out := newTestREPL(t, backend,
		"hello",
		"   ",
		"/model m2",
		"second",
		"/quit",
		"never read",
	)

	require.NoError(t, r.run(context.Background()))

	text := ansi.Strip(out.String())
	assert.Contains(t, text, "Echo: hello")
	assert.Contains(t, text, "Echo: second")
	assert.Contains(t, text, "Switched to Beta")
	assert.NotContains(t, text, "never read")

	assert.Equal(t, []string{"never read"}, reader.lines)
	assert.Equal(t, []string{"hello", "/model m2", "second", "/quit"}, reader.history)

	calls := backend.ChatCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "m1", calls[0].Model)
	assert.Equal(t, "m2", calls[1].Model)
	assert.Equal(t, "user_repl", calls[0].UserID)
}

func TestREPL_Clear(t *testing.T) {
	backend := newTestBackend(t)
	r, reader, out := newTestREPL(t, backend,
		"hello",
		"/clear", "n",
		"/clear", "y",
	)

	require.NoError(t, r.run(context.Background()))

	assert.Contains(t, reader.prompts, engine.ClearPrompt+" [y/N] ")
	assert.Empty(t, r.eng.Messages())
	assert.Contains(t, ansi.Strip(out.String()), "Chat Cleared")
	// Confirmation answers are not history.
	assert.Equal(t, []string{"hello", "/clear", "/clear"}, reader.history)
}

func TestREPL_Help(t *testing.T) {
	backend := newTestBackend(t)
	r, _, out := newTestREPL(t, backend, "/help")

	require.NoError(t, r.run(context.Background()))

	text := ansi.Strip(out.String())
	assert.Contains(t, text, "Type a message to chat")
	assert.Contains(t, text, "/model")
	assert.Empty(t, backend.ChatCalls())
}

func TestREPL_ChatError(t *testing.T) {
	backend := newTestBackend(t)
	backend.OnChat(func(testutil.ChatCall) testutil.ChatReply {
		return testutil.ChatReply{Status: 500, Error: "model crashed"}
	})
	r, _, out := newTestREPL(t, backend, "hello")

	require.NoError(t, r.run(context.Background()))
	assert.Contains(t, ansi.Strip(out.String()), "! ")
}

func TestREPL_CanceledContext(t *testing.T) {
	backend := newTestBackend(t)
	r, reader, _ := newTestREPL(t, backend, "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, r.run(ctx))
	assert.Empty(t, reader.prompts)
}

func TestLineRenderer_SkipsUserMessages(t *testing.T) {
	var out bytes.Buffer
	r := &lineRenderer{out: &out, width: 80, theme: styles.NewTheme(styles.ModeDark)}

	r.AppendMessage(engine.MessageView{Role: model.RoleUser, Sender: "You", Body: "typed already"})
	assert.Empty(t, out.String())

	r.AppendMessage(engine.MessageView{Role: model.RoleSystem, Body: "note"})
	assert.Contains(t, ansi.Strip(out.String()), "note")
}

func TestLineRenderer_StatusChanges(t *testing.T) {
	var out bytes.Buffer
	r := &lineRenderer{out: &out, width: 80, theme: styles.NewTheme(styles.ModeDark)}

	up := engine.Status{Connected: true, ActiveUsers: 1}
	down := engine.Status{}

	for _, st := range []engine.Status{up, up, down, down, up} {
		r.ShowStatus(st)
	}

	lines := strings.Split(strings.TrimRight(ansi.Strip(out.String()), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Backend connected, 1 user")
	assert.Contains(t, lines[1], "Backend disconnected")
	assert.Contains(t, lines[2], "Backend connected, 1 user")
}

func TestLineRenderer_Busy(t *testing.T) {
	var out bytes.Buffer
	r := &lineRenderer{out: &out, width: 80, theme: styles.NewTheme(styles.ModeDark)}

	r.SetBusy(true)
	assert.Empty(t, out.String())

	r.progress = true
	r.SetBusy(true)
	r.SetBusy(false)
	assert.Equal(t, 1, strings.Count(ansi.Strip(out.String()), "thinking"))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Msg: "bad"}, ExitUsageError},
		{"config", &configError{err: errors.New("bad key")}, ExitConfigError},
		{"not reachable", NewCommandError("ask", "chat", api.ErrNotReachable), ExitNetworkError},
		{"timeout", fmt.Errorf("wrapped: %w", api.ErrTimeout), ExitTimeoutError},
		{"backend down", ErrBackendDown, ExitNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, NewCommandError("ask", "chat", api.ErrNotReachable))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "[ERROR] ask: chat:")
	assert.Contains(t, out, "hint:")
	assert.Contains(t, out, "BRADAI_API_BASE_URL")

	buf.Reset()
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestModelLabel(t *testing.T) {
	tests := []struct {
		name, version, want string
	}{
		{"Brad AI", "1.12.2x", "Brad AI v1.12.2x"},
		{"Brad AI", "", "Brad AI"},
	}
	for _, tt := range tests {
		if got := modelLabel(tt.name, tt.version); got != tt.want {
			t.Errorf("modelLabel(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.want)
		}
	}
}
