// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/model"
)

// askResult is the --json payload of ask.
type askResult struct {
	Response     string           `json:"response"`
	Model        string           `json:"model"`
	ModelVersion string           `json:"model_version,omitempty"`
	Insights     *model.MLInsight `json:"ml_insights,omitempty"`
}

func newAskCommand(rs *rootState) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the reply",
		Long: `Sends a single message to the backend and prints the reply.
With no arguments the message is read from stdin.`,
		Example: `  bradai ask "What can you do?"
  echo "Summarize this" | bradai ask
  bradai ask --model brad-ai-1.12.2x --json "hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" && !IsTTY() {
				data, err := io.ReadAll(rs.app.In)
				if err != nil {
					return NewCommandError("ask", "read stdin", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return &UsageError{Msg: "ask needs a message, e.g. bradai ask \"hello\""}
			}

			if jsonOut {
				return OutputJSON(rs.app.Out, "ask", func() (any, error) {
					return ask(cmd.Context(), rs.app, text)
				})
			}
			res, err := ask(cmd.Context(), rs.app, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(rs.app.Out, res.Response)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the reply as JSON")
	return cmd
}

// ask runs one chat turn against the configured model.
func ask(ctx context.Context, app *App, text string) (*askResult, error) {
	eng := app.NewEngine(nil)
	if err := eng.LoadCatalog(ctx); err != nil {
		app.Logger.Warn("catalog load failed; using configured model", zap.Error(err))
	}

	if err := eng.SendUserTurn(ctx, text); err != nil {
		return nil, NewCommandError("ask", "chat", err)
	}

	reply, ok := eng.LastMessage()
	if !ok {
		return nil, NewCommandError("ask", "chat", errors.New("no reply"))
	}
	return &askResult{
		Response:     reply.Content,
		Model:        reply.Model,
		ModelVersion: reply.ModelVersion,
		Insights:     reply.Insights,
	}, nil
}
