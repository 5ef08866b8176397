// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the bradai command line.
//
// # Commands
//
//	bradai                 full-screen chat (line chat when not on a TTY)
//	bradai chat            line-oriented chat with input history
//	bradai ask <message>   send one message and print the reply
//	bradai models          list the backend's models
//	bradai status          check backend health
//	bradai config show     print the effective configuration
//	bradai config init     write a default config file
//	bradai config path     print the config file location
//
// # Global Flags
//
//	--config PATH     config file
//	--api-url URL     backend API root
//	-m, --model ID    model to start with
//	--theme MODE      auto, dark or light
//	--log-level LVL   debug, info, warn or error
//	--log-file PATH   log file
package cli
