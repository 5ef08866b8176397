// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"sort"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/export"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "/model <id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command. It must not block; blocking work goes
	// in Result.Run.
	Handler func(env *Env, args []string) Result

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Type        ArgType
	Description string
	// Values for enum types
	Values []string
}

// ArgType indicates what kind of value an argument takes.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeModel                 // Model id from the catalog
	ArgTypeFile                  // File path
	ArgTypeEnum                  // One of predefined values
)

// =============================================================================
// EXECUTION
// =============================================================================

// Env is what handlers act on.
type Env struct {
	Engine *engine.Engine

	// ExportOptions configures /export. Nil means export defaults.
	ExportOptions *export.Options
}

// Action is a front end effect a command asks for.
type Action int

const (
	ActionNone Action = iota
	// ActionQuit exits the program.
	ActionQuit
	// ActionHelp shows the help text.
	ActionHelp
	// ActionClear asks the user to confirm, then clears the conversation.
	ActionClear
)

// Result is what a handler returns. Front ends perform Action and run Run:
// the TUI in a tea.Cmd, the REPL inline.
type Result struct {
	Action Action
	Run    func(ctx context.Context) error
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show keys and commands",
		Category:    "General",
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit Brad AI",
		Category:    "General",
		Handler:     handleQuit,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation (asks first)",
		Category:    "Conversation",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/history",
		Description: "Show the server-side history for this session",
		Category:    "Conversation",
		Handler:     handleHistory,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Write the conversation to an HTML, Markdown or JSON file",
		Usage:       "/export [path] [html|md|json]",
		Args: []ArgDef{
			{Name: "path", Type: ArgTypeFile, Description: "Output file or directory"},
			{Name: "format", Type: ArgTypeEnum, Values: export.Formats, Description: "Export format"},
		},
		Category: "Conversation",
		Handler:  handleExport,
	})

	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch model, or list models with no argument",
		Usage:       "/model [id]",
		Args: []ArgDef{
			{Name: "id", Type: ArgTypeModel, Description: "Model id"},
		},
		Category: "Model",
		Handler:  handleModel,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Check the backend now",
		Category:    "Model",
		Handler:     handleStatus,
	})
}
