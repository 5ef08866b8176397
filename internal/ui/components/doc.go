// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual pieces of the bradai TUI.

Components hold plain view data and render with a *styles.Theme; they know
nothing about Bubble Tea or the backend.

# Display Components

Header (header.go) - current model name, description and metadata.
Sidebar (sidebar.go) - model list, ML insights and profile panels.
StatusBar (statusbar.go) - backend status, busy spinner and key hints.
MessageList / MessageBubble (message.go) - the conversation log.

# Rendering Helpers

RenderRichText (richtext.go) - formatter HTML to styled terminal text.
CodeBlock (codeblock.go) - syntax highlighted code using Chroma.
RenderMarkdown (help.go) - glamour rendering for the help view.

# Usage

	theme := styles.NewTheme(styles.ModeAuto)
	list := components.NewMessageList(theme)
	list.SetWidth(80)
	list.SetMessages(views, nil)
	content := list.View()
*/
package components
