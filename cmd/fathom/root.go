package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/marcus/fathom/internal/app"
	"github.com/marcus/fathom/internal/config"
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/msg"
	"github.com/marcus/fathom/internal/source"
	"github.com/marcus/fathom/internal/styles"
	"github.com/marcus/fathom/internal/tty"
	"github.com/marcus/fathom/internal/views"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	documents  string
	envFile    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "fathom",
		Short: "Browse and search an issue export in the terminal",
		Long: `fathom loads an exported issue set (JSON, YAML or SQLite) and opens an
interactive browser with a dashboard, an incremental search and an issue view.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(cmd.Context(), opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default is ~/.config/fathom/config.yaml)")
	pf.StringVarP(&opts.documents, "documents", "d", "", "document file, overrides documents.path")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the config")
	pf.BoolVar(&opts.debug, "debug", false, "log at debug level and show the debug pane")

	cmd.AddCommand(newQueryCmd(opts), newVersionCmd(), newConfigCmd(opts))
	return cmd
}

// loadConfig reads the .env file, the config file and the environment,
// then applies the command-line flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	overrides := map[string]any{}
	if o.documents != "" {
		overrides["documents.path"] = o.documents
	}
	if o.debug {
		overrides["debug"] = true
		overrides["log.level"] = "debug"
	}
	cfg, err := config.LoadWithOverrides(o.configPath, overrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func sourceOptions(cfg *config.Config) source.Options {
	return source.Options{
		Path:   cfg.Documents.Path,
		Format: cfg.Documents.Format,
		Table:  cfg.Documents.Table,
		Column: cfg.Documents.Column,
	}
}

// setupLogging writes to the log file, never to the terminal the UI owns.
// With debug on, records are also routed to the debug pane.
func setupLogging(cfg *config.Config) (*slog.Logger, *app.LogHandler, func(), error) {
	if dir := filepath.Dir(cfg.Log.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, nil, err
		}
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.Log.SlogLevel()
	handlers := app.FanoutHandler{slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})}
	pane := app.NewLogHandler(level)
	if cfg.Debug {
		handlers = append(handlers, pane)
	}
	logger := slog.New(handlers).With("session", uuid.NewString())
	return logger, pane, func() { _ = f.Close() }, nil
}

// programOptions configures bubbletea for output only. Input is read by the
// pump, so bracketed paste stays off: its markers are not keys.
func programOptions(ctx context.Context, cfg *config.Config) []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithContext(ctx),
		tea.WithoutBracketedPaste(),
	}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return opts
}

func runBrowser(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger, pane, closeLog, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	srcOpts := sourceOptions(cfg)
	snap, err := source.Load(ctx, srcOpts)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	logger.Info("documents loaded", "count", snap.Len(), "origin", snap.Origin, "format", snap.Format)

	term, err := tty.Open(os.Stdin)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer term.Close()

	var watcher *source.Watcher
	appCtx := app.NewContext(app.Options{
		Config:   cfg,
		Styles:   styles.ForName(cfg.UI.Theme),
		Logger:   logger,
		Snapshot: snap,
		Loader: func(ctx context.Context) (*source.Snapshot, error) {
			return source.Load(ctx, srcOpts)
		},
		OnSnapshot: func(s *source.Snapshot) {
			if watcher != nil {
				watcher.Seen(s.Hash)
			}
		},
	})
	model := app.New(appCtx, views.NewDashboard(appCtx))

	p := tea.NewProgram(model, programOptions(ctx, cfg)...)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Documents.Watch {
		watcher, err = source.NewWatcher(srcOpts, snap.Hash,
			func(s *source.Snapshot) { p.Send(msg.DocumentsLoadedMsg{Snapshot: s}) },
			func(err error) { p.Send(msg.DocumentsFailedMsg{Err: err}) },
			logger)
		if err != nil {
			logger.Warn("watching documents disabled", "error", err)
		} else {
			defer watcher.Close()
			go watcher.Run(runCtx)
		}
	}

	go pane.Forward(runCtx, p.Send)
	dec := keys.NewDecoder(term, cfg.UI.TickInterval, cfg.UI.EscapeTimeout)
	go app.Pump(runCtx, dec, p.Send)

	_, err = p.Run()
	cancel()
	appCtx.Nav.Close()
	if err != nil {
		logger.Error("program failed", "error", err)
		return err
	}
	logger.Info("exit")
	return nil
}
