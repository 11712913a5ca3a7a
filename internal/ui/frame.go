package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/styles"
)

// Level is the severity of a status message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// StatusLine renders one status message padded to the full width.
func StatusLine(st *styles.Styles, text string, level Level, width int) string {
	style := st.StatusInfo
	switch level {
	case LevelWarn:
		style = st.StatusWarn
	case LevelError:
		style = st.StatusError
	}
	text = ansi.Truncate(strings.ReplaceAll(text, "\n", " "), width, "…")
	return style.Width(width).Render(text)
}

// DebugPane renders the most recent log lines under a rule. It always
// returns height lines.
func DebugPane(st *styles.Styles, lines []string, width, height int) string {
	if height <= 0 {
		return ""
	}
	out := make([]string, 0, height)
	out = append(out, st.DiscoveryRule.Render(strings.Repeat("─", max(width, 0))))
	if rows := height - 1; len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for _, l := range lines {
		out = append(out, st.DebugPane.Render(ansi.Truncate(l, width, "")))
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// Help renders the full binding list of scope as a boxed overlay.
type Help struct {
	styles *styles.Styles
	model  help.Model
}

// NewHelp returns a help overlay renderer.
func NewHelp(st *styles.Styles) *Help {
	m := help.New()
	m.ShowAll = true
	m.Styles.FullKey = st.DiscoveryKey
	m.Styles.FullDesc = st.DiscoveryDesc
	m.Styles.FullSeparator = st.Muted
	return &Help{styles: st, model: m}
}

// Render draws the help box over background.
func (h *Help) Render(background string, scope *keymap.Scope, width, height int) string {
	h.model.Width = max(width-4, 10)
	perColumn := max(height/2, 4)
	body := h.model.FullHelpView(scope.FullHelp(perColumn))
	if len(scope.Hints()) > 0 {
		body += "\n\n" + h.styles.DiscoveryHint.Render(strings.Join(scope.Hints(), "\n"))
	}
	box := h.styles.ModalBox.Render(h.styles.Title.Render("Key bindings") + "\n\n" + body)
	return Overlay(background, box, width, height, h.styles.Dim)
}
