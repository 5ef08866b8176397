// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed CLI command with context.
type CommandError struct {
	Command string
	Action  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with the command and action that failed.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// UsageError is a bad argument or flag.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// configError marks errors from loading or validating the configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// ErrBackendDown is returned by status when the health check fails.
var ErrBackendDown = errors.New("backend is not healthy")

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError prints err in the standard format.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
	if hint := errorHint(err); hint != "" {
		fmt.Fprintf(w, "%s %s\n", DimStyle.Render("hint:"), hint)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, api.ErrNotReachable):
		return "is the Brad AI backend running? Set the URL with --api-url or " + config.EnvVar(config.KeyBaseURL) + "."
	case errors.Is(err, api.ErrTimeout):
		return "the backend did not answer in time; raise api.timeout_secs."
	}
	var ce *configError
	if errors.As(err, &ce) {
		return "run 'bradai config path' to find the config file."
	}
	return ""
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var ce *configError
	if errors.As(err, &ce) {
		return ExitConfigError
	}
	if errors.Is(err, api.ErrTimeout) {
		return ExitTimeoutError
	}
	if errors.Is(err, api.ErrNotReachable) || errors.Is(err, ErrBackendDown) {
		return ExitNetworkError
	}
	return ExitGeneralError
}
