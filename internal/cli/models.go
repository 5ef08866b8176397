// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/util"
)

// modelData is one --json row of models.
type modelData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

func newModelsCommand(rs *rootState) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models the backend offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				return OutputJSON(rs.app.Out, "models", func() (any, error) {
					entries, err := listModels(cmd.Context(), rs.app)
					if err != nil {
						return nil, err
					}
					rows := make([]modelData, len(entries))
					for i, e := range entries {
						rows[i] = modelData(e)
					}
					return rows, nil
				})
			}
			entries, err := listModels(cmd.Context(), rs.app)
			if err != nil {
				return err
			}
			printModels(rs.app, entries)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the catalog as JSON")
	return cmd
}

func listModels(ctx context.Context, app *App) ([]engine.CatalogEntry, error) {
	eng := app.NewEngine(nil)
	if err := eng.LoadCatalog(ctx); err != nil {
		return nil, NewCommandError("models", "load catalog", err)
	}
	return eng.CatalogEntries(), nil
}

// printModels writes one row per model; "*" marks the model a chat would
// start with.
func printModels(app *App, entries []engine.CatalogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(app.Out, DimStyle.Render("No models available."))
		return
	}

	idWidth := 0
	for _, e := range entries {
		idWidth = max(idWidth, util.StringWidth(e.ID))
	}

	for _, e := range entries {
		marker := "  "
		if e.Active {
			marker = "* "
		}
		row := marker + util.PadRight(e.ID, idWidth) + "  " + ValueStyle.Render(modelLabel(e.Name, e.Version))
		if e.Description != "" {
			row += "  " + DimStyle.Render(e.Description)
		}
		fmt.Fprintln(app.Out, row)
	}
}
