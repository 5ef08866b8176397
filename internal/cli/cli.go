// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/config"
	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/export"
	"github.com/jeranaias/bradai-tui/internal/logging"
	"github.com/jeranaias/bradai-tui/internal/session"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// annotationSkipApp marks commands that run without loading the config.
const annotationSkipApp = "bradai/skip-app"

// =============================================================================
// APP
// =============================================================================

// App holds what every command needs once the configuration is loaded.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Client *api.Client
	Theme  *styles.Theme

	Out io.Writer
	Err io.Writer
	In  io.Reader
}

// NewEngine creates an engine over a fresh session with the configured
// default model. A nil render discards output.
func (a *App) NewEngine(render engine.Renderer) *engine.Engine {
	return engine.New(session.New(a.Config.Chat.DefaultModel), a.Client, render, engine.Options{
		DefaultModel: a.Config.Chat.DefaultModel,
		Locale:       a.Config.UI.Language(),
		Logger:       a.Logger,
	})
}

// ExportOptions are the /export settings for the configured theme.
func (a *App) ExportOptions() *export.Options {
	opts := export.DefaultOptions()
	opts.Theme = a.Theme.GlamourStyle()
	return opts
}

func loadApp(cmd *cobra.Command, configPath string) (*App, error) {
	cfg, err := config.Load(config.Options{
		Path:  configPath,
		Flags: flagBindings(cmd.Flags()),
	})
	if err != nil {
		return nil, &configError{err: err}
	}

	logger := zap.NewNop()
	if path, err := cfg.LogPath(); err == nil {
		l, err := logging.New(logging.Options{Level: cfg.Log.Level, Path: path})
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.RenderWarning("logging disabled: "+err.Error()))
		} else {
			logger = l
		}
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Client: api.NewClient(&api.ClientConfig{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout(),
		}),
		Theme: styles.NewTheme(styles.ParseMode(cfg.UI.Theme)),
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
		In:    cmd.InOrStdin(),
	}, nil
}

// flagBindings maps config keys to the global flags that override them.
func flagBindings(fs *pflag.FlagSet) map[string]*pflag.Flag {
	return map[string]*pflag.Flag{
		config.KeyBaseURL:      fs.Lookup("api-url"),
		config.KeyDefaultModel: fs.Lookup("model"),
		config.KeyTheme:        fs.Lookup("theme"),
		config.KeyLogLevel:     fs.Lookup("log-level"),
		config.KeyLogFile:      fs.Lookup("log-file"),
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// rootState is shared by the command tree.
type rootState struct {
	configPath string
	app        *App
}

// NewRootCommand builds the bradai command tree.
func NewRootCommand() *cobra.Command {
	rs := &rootState{}

	root := &cobra.Command{
		Use:   "bradai",
		Short: "Brad AI terminal chat client",
		Long: `bradai is a terminal client for the Brad AI chatbot backend.

Run without arguments to start the full-screen chat. When stdin or stdout
is not a terminal a line-oriented chat is used instead.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureColors()
			if cmd.Annotations[annotationSkipApp] == "true" {
				return nil
			}
			app, err := loadApp(cmd, rs.configPath)
			if err != nil {
				return err
			}
			rs.app = app
			app.Logger.Debug("command start",
				zap.String("command", cmd.CommandPath()),
				zap.String("api", app.Config.API.BaseURL))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rs.app != nil {
				_ = rs.app.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), rs.app)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("bradai %s (commit %s, built %s)\n", Version, GitCommit, BuildDate))
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&rs.configPath, "config", "", "config file (default ~/.bradai/config.toml)")
	pf.String("api-url", "", "backend API root, e.g. http://localhost:5000/api")
	pf.StringP("model", "m", "", "model id to start with")
	pf.String("theme", "", "color theme: auto, dark or light")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-file", "", "log file (default ~/.bradai/bradai.log)")

	root.AddCommand(
		newChatCommand(rs),
		newAskCommand(rs),
		newModelsCommand(rs),
		newStatusCommand(rs),
		newConfigCommand(rs),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		DisplayError(root.ErrOrStderr(), err)
		return GetExitCode(err)
	}
	return ExitSuccess
}
