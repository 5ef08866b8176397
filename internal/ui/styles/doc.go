// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the bradai TUI.

All colors are Lip Gloss AdaptiveColor values, so one palette serves both
light and dark terminals.

# Color System (colors.go)

  - Purple - assistant messages, active model, spinner
  - Cyan - user highlights, panel titles, focus ring
  - Emerald - connected status
  - Amber - system notices, disabled input, confirmation dialog
  - Rose - errors, disconnected status

Status text also carries an ASCII indicator ([OK], [X], [!], [i]) so it
reads without color.

# Theme System (theme.go)

	theme := styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	theme.SetSize(width, height)
	if theme.SidebarWidth() == 0 {
		// narrow terminal: sidebar hidden
	}

GlamourStyle and ChromaStyle name the markdown and syntax styles that match
the detected background.
*/
package styles
