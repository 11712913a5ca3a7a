package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/styles"
)

const (
	discoveryMarginLeft = 2
	discoveryColumnGap  = 4
)

// Discovery renders the bindings of the active scope below the view, so the
// user can see which keys do something right now.
type Discovery struct {
	styles *styles.Styles
}

// NewDiscovery returns a discovery bar renderer.
func NewDiscovery(st *styles.Styles) *Discovery {
	return &Discovery{styles: st}
}

// Render lays scope out in height lines: a rule, then the entries in
// columns of height-1 rows followed by the hints. Keys of one entry are
// joined with spaces. Entries with a disabled key are dimmed. The caller
// runs the scope's render callback first.
func (d *Discovery) Render(scope *keymap.Scope, width, height int) string {
	if height <= 0 {
		return ""
	}
	rule := d.styles.DiscoveryRule.Render(strings.Repeat("─", max(width, 0)))
	rows := height - 1
	if rows == 0 {
		return rule
	}

	var columns []string
	entries := scope.Entries()
	for len(entries) > 0 {
		n := min(rows, len(entries))
		columns = append(columns, d.entryColumn(scope, entries[:n]))
		entries = entries[n:]
	}
	hints := scope.Hints()
	for len(hints) > 0 {
		n := min(rows, len(hints))
		columns = append(columns, d.hintColumn(hints[:n]))
		hints = hints[n:]
	}

	body := make([]string, rows)
	if len(columns) > 0 {
		gap := strings.Repeat(" ", discoveryColumnGap)
		parts := []string{strings.Repeat(" ", discoveryMarginLeft)}
		for i, col := range columns {
			if i > 0 {
				parts = append(parts, gap)
			}
			parts = append(parts, col)
		}
		joined := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, parts...), "\n")
		copy(body, joined)
	}
	for i, line := range body {
		body[i] = ansi.Truncate(line, width, "")
	}
	return rule + "\n" + strings.Join(body, "\n")
}

func (d *Discovery) entryColumn(scope *keymap.Scope, entries []keymap.Entry) string {
	labels := make([]string, len(entries))
	keyWidth, descWidth := 0, 0
	for i, e := range entries {
		names := make([]string, len(e.Keys))
		for j, k := range e.Keys {
			names[j] = string(k)
		}
		labels[i] = strings.Join(names, " ")
		keyWidth = max(keyWidth, ansi.StringWidth(labels[i]))
		descWidth = max(descWidth, ansi.StringWidth(e.Description))
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		keyStyle, descStyle := d.styles.DiscoveryKey, d.styles.DiscoveryDesc
		if scope.EntryDisabled(e) {
			keyStyle, descStyle = d.styles.DiscoveryDisabled, d.styles.DiscoveryDisabled
		}
		pad := strings.Repeat(" ", keyWidth-ansi.StringWidth(labels[i]))
		desc := e.Description + strings.Repeat(" ", descWidth-ansi.StringWidth(e.Description))
		lines[i] = keyStyle.Render(labels[i]) + pad + " " + descStyle.Render(desc)
	}
	return strings.Join(lines, "\n")
}

func (d *Discovery) hintColumn(hints []string) string {
	lines := make([]string, len(hints))
	for i, h := range hints {
		lines[i] = d.styles.DiscoveryHint.Render(h)
	}
	return strings.Join(lines, "\n")
}
