// Package app runs the interactive loop: it owns the runtime context shared
// by views and hosts the loop in a bubbletea program.
package app

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/config"
	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/render"
	"github.com/marcus/fathom/internal/source"
	"github.com/marcus/fathom/internal/styles"
	"github.com/marcus/fathom/internal/ui"
	"github.com/marcus/fathom/internal/view"
)

// Loader loads a fresh document snapshot. It runs off the loop goroutine.
type Loader func(ctx context.Context) (*source.Snapshot, error)

// Status is one status line message.
type Status struct {
	Text string
	// Persistent keeps the message across full redraws. Otherwise the
	// next view transition or resize clears it.
	Persistent bool
	Level      ui.Level
}

// Context is the runtime state shared by the loop and the views. It is
// created once by the entry point and passed to every view constructor.
// Apart from Exec'd commands, everything here is touched only from the
// loop goroutine.
type Context struct {
	Config   *config.Config
	Bindings *keymap.Stack
	Nav      *view.Navigator
	Styles   *styles.Styles
	Renderer *render.Renderer
	Logger   *slog.Logger

	loader     Loader
	onSnapshot func(*source.Snapshot)

	snapshot   *source.Snapshot
	generation int
	status     Status
	reloading  bool
	showHelp   bool
	quitting   bool
	pending    []tea.Cmd
}

// Options configures NewContext.
type Options struct {
	Config   *config.Config
	Styles   *styles.Styles
	Logger   *slog.Logger
	Snapshot *source.Snapshot
	Loader   Loader
	// OnSnapshot is called on the loop goroutine for every accepted
	// snapshot, e.g. to tell the file watcher about a manual reload.
	OnSnapshot func(*source.Snapshot)
}

// NewContext builds the runtime context.
func NewContext(opts Options) *Context {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	st := opts.Styles
	if st == nil {
		st = styles.ForName(cfg.UI.Theme)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Context{
		Config:     cfg,
		Bindings:   keymap.NewStack(),
		Styles:     st,
		Renderer:   render.New(st.Theme.Colors.MarkdownTheme, st.Theme.Colors.SyntaxTheme),
		Logger:     logger,
		loader:     opts.Loader,
		onSnapshot: opts.OnSnapshot,
		snapshot:   opts.Snapshot,
	}
	if c.snapshot == nil {
		c.snapshot = &source.Snapshot{}
	}
	c.Nav = view.NewNavigator(view.Options{
		MaxHistory: cfg.UI.MaxHistory,
		OnRedraw:   c.fullRedraw,
		Logger:     logger,
	})
	return c
}

// fullRedraw drops a transient status message.
func (c *Context) fullRedraw() {
	if !c.status.Persistent {
		c.status = Status{}
	}
}

// SetStatus replaces the status line message.
func (c *Context) SetStatus(s Status) {
	c.status = s
}

// Info shows a transient informational status.
func (c *Context) Info(text string) {
	c.SetStatus(Status{Text: text})
}

// Error shows err on the status line until the next transition.
func (c *Context) Error(err error) {
	c.SetStatus(Status{Text: err.Error(), Level: ui.LevelError})
}

// CurrentStatus returns the status line message.
func (c *Context) CurrentStatus() Status { return c.status }

// Snapshot returns the current document snapshot and its generation. The
// generation increases every time a changed snapshot is accepted, so views
// can tell when to rebuild derived state.
func (c *Context) Snapshot() (*source.Snapshot, int) {
	return c.snapshot, c.generation
}

// Generation returns the current snapshot generation.
func (c *Context) Generation() int { return c.generation }

func (c *Context) acceptSnapshot(snap *source.Snapshot) bool {
	if snap == nil {
		return false
	}
	if c.snapshot != nil && c.snapshot.Hash == snap.Hash && c.snapshot.Len() == snap.Len() {
		return false
	}
	c.snapshot = snap
	c.generation++
	if c.onSnapshot != nil {
		c.onSnapshot(snap)
	}
	return true
}

// Exec schedules cmd to run off the loop goroutine. Its result message is
// delivered back into the loop.
func (c *Context) Exec(cmd tea.Cmd) {
	if cmd != nil {
		c.pending = append(c.pending, cmd)
	}
}

func (c *Context) drain() tea.Cmd {
	if len(c.pending) == 0 {
		return nil
	}
	cmds := c.pending
	c.pending = nil
	return tea.Batch(cmds...)
}

// RequestReload loads the documents again in the background.
func (c *Context) RequestReload() {
	if c.loader == nil {
		c.SetStatus(Status{Text: "Reload is not available", Level: ui.LevelWarn})
		return
	}
	if c.reloading {
		return
	}
	c.reloading = true
	c.Info("Reloading documents…")
	c.Exec(ReloadCmd(c.loader, true))
}

// Reloading reports whether a manual reload is in flight.
func (c *Context) Reloading() bool { return c.reloading }

// ToggleHelp shows or hides the key binding overlay.
func (c *Context) ToggleHelp() { c.showHelp = !c.showHelp }

// HelpVisible reports whether the help overlay is shown.
func (c *Context) HelpVisible() bool { return c.showHelp }

// Quit stops the loop after the current message.
func (c *Context) Quit() { c.quitting = true }

// Quitting reports whether Quit was called.
func (c *Context) Quitting() bool { return c.quitting }
