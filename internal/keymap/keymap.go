// Package keymap keeps context-scoped key bindings on a stack.
//
// Each interaction context (a view, a sub-menu) pushes a Scope, registers
// its actions and pops the scope when it is left. Only the top scope
// dispatches keys.
package keymap

import (
	"errors"
	"fmt"

	"github.com/marcus/fathom/internal/keys"
)

// Action is invoked when an enabled key bound to it is dispatched. A nil
// Action still claims its keys.
type Action func()

// Entry is one registered action with every key that triggers it.
type Entry struct {
	Keys        []keys.Key
	Description string
	Action      Action
}

// Bind is shorthand for building an Entry.
func Bind(description string, action Action, ks ...keys.Key) Entry {
	return Entry{Keys: ks, Description: description, Action: action}
}

// BindingSet is the argument of Stack.RegisterAll.
type BindingSet struct {
	// Entries are registered in order.
	Entries []Entry
	// RenderCallback, when set, is installed on the resulting scope and
	// runs before each screen refresh.
	RenderCallback func()
	// Push starts a fresh scope before registering.
	Push bool
}

// ErrEmptyStack is returned by Pop when only the root scope remains.
var ErrEmptyStack = errors.New("keymap: cannot pop the root scope")

// ConflictError reports a key registered twice in one scope.
type ConflictError struct {
	Key         keys.Key
	Description string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("keymap: key %q is already bound in this scope (registering %q)", e.Key, e.Description)
}

// UnknownKeyError reports enable/disable of a key that was never registered
// in the active scope.
type UnknownKeyError struct {
	Key keys.Key
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("keymap: key %q is not bound in this scope", e.Key)
}
