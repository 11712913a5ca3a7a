// Package views holds the screens of the issue browser: the dashboard, the
// incremental issue search and the issue detail view.
//
// Every view pushes its own binding scope in OnEnter and pops it in
// OnLeave, so the binding stack always mirrors the navigation state.
package views

import (
	"fmt"

	"github.com/marcus/fathom/internal/app"
	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/view"
)

// must stops on a binding setup error. Conflicting or unknown keys are
// programming mistakes in a view, not something to recover from.
func must(ctx *app.Context, err error) {
	if err == nil {
		return
	}
	ctx.Logger.Error("views: binding setup failed", "error", err)
	panic(fmt.Sprintf("views: binding setup: %v", err))
}

// common holds the behavior shared by the dashboard and the issue view:
// "q" goes back, or quits at the root, and F1 opens help.
type common struct {
	ctx *app.Context
}

func (c common) enter() {
	c.ctx.Bindings.Push()
	desc := "Quit"
	if c.ctx.Nav.CanGoBack() {
		desc = "Back"
	}
	must(c.ctx, c.ctx.Bindings.RegisterAll(keymap.BindingSet{
		Entries: []keymap.Entry{
			keymap.Bind(desc, c.quit, "q"),
			keymap.Bind("Help", c.ctx.ToggleHelp, keys.F1),
		},
	}))
}

func (c common) leave() view.Transition {
	must(c.ctx, c.ctx.Bindings.Pop())
	return view.Proceed
}

func (c common) quit() {
	if c.ctx.Nav.CanGoBack() {
		c.ctx.Nav.Back()
		return
	}
	c.ctx.Quit()
}

// setEnabled enables or disables ks in the active scope.
func setEnabled(ctx *app.Context, enabled bool, ks ...keys.Key) {
	must(ctx, ctx.Bindings.SetEnabled(enabled, ks...))
}
