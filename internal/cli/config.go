// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/bradai-tui/internal/config"
)

func newConfigCommand(rs *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		Long: `Settings are read from the TOML config file, then BRADAI_*
environment variables (e.g. BRADAI_API_BASE_URL), then command-line flags.`,
	}
	cmd.AddCommand(
		newConfigShowCommand(rs),
		newConfigInitCommand(rs),
		newConfigPathCommand(rs),
	)
	return cmd
}

func newConfigShowCommand(rs *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(rs.app.Config)
			if err != nil {
				return NewCommandError("config show", "encode", err)
			}
			_, err = rs.app.Out.Write(data)
			return err
		},
	}
}

func newConfigInitCommand(rs *rootState) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the default settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFile(rs)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &UsageError{Msg: path + " already exists; use --force to overwrite"}
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return NewCommandError("config init", "write", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigPathCommand(rs *rootState) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFile(rs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configFile is --config when given, else the default location.
func configFile(rs *rootState) (string, error) {
	if rs.configPath != "" {
		return rs.configPath, nil
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "", &configError{err: err}
	}
	return path, nil
}
