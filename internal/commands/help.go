// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// KeyBinding is one row of the keyboard section of the help text.
type KeyBinding struct {
	Keys string
	Desc string
}

// KeyBindings lists the TUI keys.
var KeyBindings = []KeyBinding{
	{"Enter", "Send the message"},
	{"Alt+Enter, Ctrl+J", "Insert a newline"},
	{"Tab", "Focus the model list (Up/Down, Enter selects, Esc returns)"},
	{"Ctrl+L", "Clear the conversation"},
	{"PgUp, PgDn", "Scroll the conversation"},
	{"Ctrl+C", "Quit"},
}

var categoryOrder = []string{"General", "Conversation", "Model"}

// HelpMarkdown renders the help text as markdown. keys is nil for front
// ends without key bindings.
func (r *Registry) HelpMarkdown(keys []KeyBinding) string {
	var b strings.Builder
	b.WriteString("# Brad AI\n\n")
	b.WriteString("Type a message to chat with the selected model.\n")

	if len(keys) > 0 {
		b.WriteString("\n## Keys\n\n")
		b.WriteString("| Key | Action |\n|---|---|\n")
		for _, k := range keys {
			b.WriteString("| " + k.Keys + " | " + k.Desc + " |\n")
		}
	}

	groups := r.ByCategory()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return categoryRank(names[i]) < categoryRank(names[j]) ||
			(categoryRank(names[i]) == categoryRank(names[j]) && names[i] < names[j])
	})

	b.WriteString("\n## Commands\n")
	for _, name := range names {
		b.WriteString("\n### " + name + "\n\n")
		for _, cmd := range groups[name] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			b.WriteString("- `" + usage + "` " + cmd.Description)
			if len(cmd.Aliases) > 0 {
				b.WriteString(" (also " + strings.Join(cmd.Aliases, ", ") + ")")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func categoryRank(name string) int {
	for i, c := range categoryOrder {
		if c == name {
			return i
		}
	}
	return len(categoryOrder)
}
