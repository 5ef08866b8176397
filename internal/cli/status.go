// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// statusData is the --json payload of status.
type statusData struct {
	BaseURL      string    `json:"base_url"`
	Connected    bool      `json:"connected"`
	ActiveUsers  int       `json:"active_users"`
	Service      string    `json:"service,omitempty"`
	ModelsLoaded int       `json:"models_loaded,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

func newStatusCommand(rs *rootState) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the backend's health",
		Long: `Polls the backend's /health endpoint once. Exits non-zero when the
backend is unreachable or reports anything but healthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rs.app
			st := app.NewEngine(nil).PollHealth(cmd.Context())

			data := statusData{
				BaseURL:      app.Client.BaseURL(),
				Connected:    st.Connected,
				ActiveUsers:  st.ActiveUsers,
				Service:      st.Service,
				ModelsLoaded: st.ModelsLoaded,
				CheckedAt:    st.CheckedAt,
			}
			if jsonOut {
				return OutputJSON(app.Out, "status", func() (any, error) {
					if !st.Connected {
						return nil, ErrBackendDown
					}
					return data, nil
				})
			}

			fmt.Fprintln(app.Out, TitleStyle.Render("Brad AI backend"))
			fmt.Fprintln(app.Out, field("Endpoint", data.BaseURL))
			fmt.Fprintln(app.Out, LabelStyle.Render("Status")+styles.RenderStatus(st.Connected, st.Label()))
			if st.Service != "" {
				fmt.Fprintln(app.Out, field("Service", st.Service))
			}
			if st.ModelsLoaded > 0 {
				fmt.Fprintln(app.Out, field("Models loaded", strconv.Itoa(st.ModelsLoaded)))
			}
			if !st.Connected {
				return ErrBackendDown
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	return cmd
}
