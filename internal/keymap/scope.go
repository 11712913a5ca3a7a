package keymap

import "github.com/marcus/fathom/internal/keys"

// Scope is the set of bindings of one interaction context.
type Scope struct {
	entries  []Entry
	lookup   map[keys.Key]int // key -> index into entries
	disabled map[keys.Key]struct{}
	hints    []string
	render   func()
}

func newScope() *Scope {
	return &Scope{
		lookup:   make(map[keys.Key]int),
		disabled: make(map[keys.Key]struct{}),
	}
}

// register adds an entry. Nothing is added when any key conflicts.
func (s *Scope) register(e Entry) error {
	seen := make(map[keys.Key]struct{}, len(e.Keys))
	for _, k := range e.Keys {
		if _, ok := s.lookup[k]; ok {
			return &ConflictError{Key: k, Description: e.Description}
		}
		if _, ok := seen[k]; ok {
			return &ConflictError{Key: k, Description: e.Description}
		}
		seen[k] = struct{}{}
	}
	e.Keys = append([]keys.Key(nil), e.Keys...)
	s.entries = append(s.entries, e)
	for _, k := range e.Keys {
		s.lookup[k] = len(s.entries) - 1
	}
	return nil
}

func (s *Scope) setEnabled(ks []keys.Key, enabled bool) error {
	for _, k := range ks {
		if _, ok := s.lookup[k]; !ok {
			return &UnknownKeyError{Key: k}
		}
	}
	for _, k := range ks {
		if enabled {
			delete(s.disabled, k)
		} else {
			s.disabled[k] = struct{}{}
		}
	}
	return nil
}

// call dispatches key. It reports whether the key is bound in this scope.
func (s *Scope) call(key keys.Key) bool {
	idx, ok := s.lookup[key]
	if !ok {
		return false
	}
	if _, off := s.disabled[key]; off {
		return true
	}
	if action := s.entries[idx].Action; action != nil {
		action()
	}
	return true
}

// Entries returns the registered entries in registration order.
func (s *Scope) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Hints returns the hint lines attached to the scope.
func (s *Scope) Hints() []string {
	return append([]string(nil), s.hints...)
}

// Bound reports whether key is registered in the scope.
func (s *Scope) Bound(key keys.Key) bool {
	_, ok := s.lookup[key]
	return ok
}

// Disabled reports whether key is registered but disabled.
func (s *Scope) Disabled(key keys.Key) bool {
	_, off := s.disabled[key]
	return off
}

// EntryDisabled reports whether any key of e is disabled. The discovery bar
// dims such entries.
func (s *Scope) EntryDisabled(e Entry) bool {
	for _, k := range e.Keys {
		if s.Disabled(k) {
			return true
		}
	}
	return false
}

// RenderCallback returns the pre-render callback, or nil.
func (s *Scope) RenderCallback() func() {
	return s.render
}
