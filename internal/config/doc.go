// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for bradai.
//
// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: backend base URL and request timeout
//   - ChatConfig: default model and health poll interval
//   - UIConfig: theme, locale and input sizing
//   - LogConfig: log level and file
//
// # Configuration Precedence
//
// Highest first:
//   - Command-line flags bound through Options.Flags
//   - Environment variables (BRADAI_API_BASE_URL, BRADAI_LOG_LEVEL, ...)
//   - ~/.bradai/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load(config.Options{})
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(&api.ClientConfig{
//	    BaseURL: cfg.API.BaseURL,
//	    Timeout: cfg.API.Timeout(),
//	})
package config
