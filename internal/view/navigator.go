package view

import (
	"log/slog"

	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/screen"
)

// DefaultMaxHistory is the number of prior views kept for Back.
const DefaultMaxHistory = 10

type frame struct {
	view   View
	scroll int
}

// Options configures a Navigator.
type Options struct {
	// MaxHistory bounds the history. Zero or negative means
	// DefaultMaxHistory.
	MaxHistory int
	// OnRedraw is called after every completed transition to request a
	// full redraw of the screen.
	OnRedraw func()
	Logger   *slog.Logger
}

// Navigator owns the current view and a bounded history of prior views.
// It is driven from the loop goroutine only.
type Navigator struct {
	current    frame
	history    []frame
	maxHistory int
	onRedraw   func()
	logger     *slog.Logger

	transitioning bool
}

// NewNavigator returns a navigator with no current view.
func NewNavigator(opts Options) *Navigator {
	n := &Navigator{
		maxHistory: opts.MaxHistory,
		onRedraw:   opts.OnRedraw,
		logger:     opts.Logger,
	}
	if n.maxHistory <= 0 {
		n.maxHistory = DefaultMaxHistory
	}
	if n.logger == nil {
		n.logger = slog.New(slog.DiscardHandler)
	}
	return n
}

// begin guards against navigation from within a lifecycle hook of the view
// being transitioned.
func (n *Navigator) begin(op string) bool {
	if n.transitioning {
		n.logger.Warn("navigator: nested transition ignored", "op", op)
		return false
	}
	n.transitioning = true
	return true
}

func (n *Navigator) end() { n.transitioning = false }

// Navigate makes v the current view and pushes the previous one onto the
// history. It returns false, changing nothing, when the current view vetoes.
func (n *Navigator) Navigate(v View) bool {
	if !n.begin("navigate") {
		return false
	}
	defer n.end()

	if prev := n.current.view; prev != nil {
		if prev.OnLeave() == Veto {
			n.logger.Debug("navigator: navigation vetoed", "from", prev.Name(), "to", v.Name())
			return false
		}
		n.history = append(n.history, n.current)
		for len(n.history) > n.maxHistory {
			oldest := n.history[0]
			n.history[0] = frame{}
			n.history = n.history[1:]
			n.logger.Debug("navigator: dropping oldest view", "view", oldest.view.Name())
			oldest.view.OnDrop()
		}
	}

	n.current = frame{view: v}
	v.OnEnter()
	n.logger.Debug("navigator: entered", "view", v.Name(), "history", len(n.history))
	n.redraw()
	return true
}

// Back discards the current view and restores the most recent one from
// history, with its scroll offset. It returns false when the history is
// empty or the current view vetoes.
func (n *Navigator) Back() bool {
	if len(n.history) == 0 {
		return false
	}
	if !n.begin("back") {
		return false
	}
	defer n.end()

	cur := n.current.view
	if cur.OnLeave() == Veto {
		n.logger.Debug("navigator: back vetoed", "view", cur.Name())
		return false
	}
	cur.OnDrop()

	last := len(n.history) - 1
	n.current = n.history[last]
	n.history[last] = frame{}
	n.history = n.history[:last]
	n.current.view.OnEnter()
	n.logger.Debug("navigator: back", "view", n.current.view.Name(), "history", len(n.history))
	n.redraw()
	return true
}

// Close drops the current view and the whole history, newest first.
func (n *Navigator) Close() {
	if n.current.view != nil {
		n.current.view.OnDrop()
	}
	for i := len(n.history) - 1; i >= 0; i-- {
		n.history[i].view.OnDrop()
	}
	n.current = frame{}
	n.history = nil
}

func (n *Navigator) redraw() {
	if n.onRedraw != nil {
		n.onRedraw()
	}
}

// Current returns the current view, or nil before the first Navigate.
func (n *Navigator) Current() View { return n.current.view }

// HistoryLen returns the number of views that Back can return to.
func (n *Navigator) HistoryLen() int { return len(n.history) }

// CanGoBack reports whether the history is non-empty.
func (n *Navigator) CanGoBack() bool { return len(n.history) > 0 }

// Scroll returns the scroll offset of the current view.
func (n *Navigator) Scroll() int { return n.current.scroll }

// SetScroll sets the scroll offset of the current view. Negative values
// are clamped to zero.
func (n *Navigator) SetScroll(offset int) {
	n.current.scroll = max(offset, 0)
}

// ScrollBy moves the scroll offset by delta.
func (n *Navigator) ScrollBy(delta int) {
	n.SetScroll(n.current.scroll + delta)
}

// Tick forwards a tick to the current view.
func (n *Navigator) Tick() {
	if v := n.current.view; v != nil {
		v.Tick()
	}
}

// Keypress forwards a key the binding stack did not claim.
func (n *Navigator) Keypress(key keys.Key) {
	if v := n.current.view; v != nil {
		v.Keypress(key)
	}
}

// Redraw renders the current view onto s.
func (n *Navigator) Redraw(s screen.Surface) {
	s.Clear()
	if v := n.current.view; v != nil {
		v.Redraw(s, n.current.scroll)
	}
}
