// Package view defines the screen capability implemented by every fathom
// view and the Navigator that moves between them.
package view

import (
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/screen"
)

// Transition is the answer of OnLeave.
type Transition int

const (
	// Proceed allows the navigation away from the view.
	Proceed Transition = iota
	// Veto aborts the navigation. The view stays current and nothing
	// else changes.
	Veto
)

func (t Transition) String() string {
	if t == Veto {
		return "veto"
	}
	return "proceed"
}

// View is one screen of the application.
//
// OnEnter runs each time the view becomes current, including when it is
// restored from history. It is expected to push a binding scope and register
// the view's actions; OnLeave is expected to pop it again. OnDrop runs once,
// when the view is discarded for good.
type View interface {
	Name() string
	OnEnter()
	OnLeave() Transition
	OnDrop()
	Redraw(s screen.Surface, scroll int)
	Tick()
	Keypress(key keys.Key)
}

// Base provides no-op lifecycle methods. Views embed it and override the
// ones they need.
type Base struct{}

func (Base) OnEnter() {}
func (Base) OnLeave() Transition { return Proceed }
func (Base) OnDrop() {}
func (Base) Tick() {}
func (Base) Keypress(keys.Key) {}
func (Base) Redraw(screen.Surface, int) {}
