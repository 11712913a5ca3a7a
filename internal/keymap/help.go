package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Bindings converts the scope entries into bubbles key bindings, so the
// help overlay can lay them out with the bubbles help model. Disabled
// entries are reported as disabled bindings and are hidden by the help
// renderer.
func (s *Scope) Bindings() []key.Binding {
	out := make([]key.Binding, 0, len(s.entries))
	for _, e := range s.entries {
		names := make([]string, len(e.Keys))
		for i, k := range e.Keys {
			names[i] = string(k)
		}
		b := key.NewBinding(
			key.WithKeys(names...),
			key.WithHelp(strings.Join(names, " "), e.Description),
		)
		b.SetEnabled(!s.EntryDisabled(e))
		out = append(out, b)
	}
	return out
}

// FullHelp groups the bindings into columns of at most perColumn entries.
// It satisfies the shape expected by help.KeyMap.
func (s *Scope) FullHelp(perColumn int) [][]key.Binding {
	all := s.Bindings()
	if perColumn <= 0 {
		perColumn = len(all)
	}
	var cols [][]key.Binding
	for len(all) > 0 {
		n := min(perColumn, len(all))
		cols = append(cols, all[:n])
		all = all[n:]
	}
	return cols
}
