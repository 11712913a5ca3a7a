package keymap

import "github.com/marcus/fathom/internal/keys"

// Stack holds the nested scopes. The root scope is always present, so the
// stack is never empty. A Stack is owned by the loop goroutine and is not
// safe for concurrent use.
type Stack struct {
	scopes []*Scope
}

// NewStack returns a stack holding only an empty root scope.
func NewStack() *Stack {
	return &Stack{scopes: []*Scope{newScope()}}
}

func (st *Stack) top() *Scope {
	return st.scopes[len(st.scopes)-1]
}

// Register binds keys to action in the active scope. It fails with a
// *ConflictError, registering nothing, when any key is already bound there.
func (st *Stack) Register(ks []keys.Key, description string, action Action) error {
	return st.top().register(Entry{Keys: ks, Description: description, Action: action})
}

// RegisterAll registers set.Entries in order, optionally on a freshly
// pushed scope, and installs set.RenderCallback. When a pushed registration
// fails the new scope is popped again.
func (st *Stack) RegisterAll(set BindingSet) error {
	if set.Push {
		st.Push()
	}
	scope := st.top()
	for _, e := range set.Entries {
		if err := scope.register(e); err != nil {
			if set.Push {
				st.scopes = st.scopes[:len(st.scopes)-1]
			}
			return err
		}
	}
	if set.RenderCallback != nil {
		scope.render = set.RenderCallback
	}
	return nil
}

// SetRenderCallback installs the pre-render callback of the active scope.
func (st *Stack) SetRenderCallback(fn func()) {
	st.top().render = fn
}

// AddHint attaches a non-actionable hint to the active scope.
func (st *Stack) AddHint(text string) {
	scope := st.top()
	scope.hints = append(scope.hints, text)
}

// Enable re-enables previously disabled keys of the active scope.
func (st *Stack) Enable(ks ...keys.Key) error {
	return st.top().setEnabled(ks, true)
}

// Disable disables keys of the active scope. A disabled key is still
// claimed by Call but its action is not invoked.
func (st *Stack) Disable(ks ...keys.Key) error {
	return st.top().setEnabled(ks, false)
}

// SetEnabled enables or disables keys depending on enabled.
func (st *Stack) SetEnabled(enabled bool, ks ...keys.Key) error {
	return st.top().setEnabled(ks, enabled)
}

// Call dispatches key to the active scope. It returns true when the key is
// bound there (whether or not its action ran) and false otherwise, in which
// case the key should be forwarded to the current view.
func (st *Stack) Call(key keys.Key) bool {
	return st.top().call(key)
}

// Push saves the active scope and starts a fresh, empty one.
func (st *Stack) Push() {
	st.scopes = append(st.scopes, newScope())
}

// Pop drops the active scope and restores the previous one. It returns
// ErrEmptyStack when only the root scope remains.
func (st *Stack) Pop() error {
	if len(st.scopes) == 1 {
		return ErrEmptyStack
	}
	st.scopes[len(st.scopes)-1] = nil
	st.scopes = st.scopes[:len(st.scopes)-1]
	return nil
}

// Current returns the active scope for rendering.
func (st *Stack) Current() *Scope {
	return st.top()
}

// Depth returns the number of scopes, including the root.
func (st *Stack) Depth() int {
	return len(st.scopes)
}
