// Package msg holds the messages exchanged between background goroutines
// and the loop. Anything produced off the loop goroutine reaches views only
// through one of these, delivered by tea.Program.Send.
package msg

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/source"
)

// KeyMsg carries one decoded key from the input pump.
type KeyMsg struct {
	Key keys.Key
}

// TickMsg is sent when a key read timed out without input.
type TickMsg struct{}

// DecodeErrorMsg reports an escape sequence the decoder could not map.
type DecodeErrorMsg struct {
	Err *keys.DecodeError
}

// InputClosedMsg is sent once when the input source ends.
type InputClosedMsg struct {
	Err error
}

// DocumentsLoadedMsg delivers a freshly loaded document snapshot.
type DocumentsLoadedMsg struct {
	Snapshot *source.Snapshot
	// Manual is set for reloads requested by the user.
	Manual bool
}

// DocumentsFailedMsg reports a failed (re)load.
type DocumentsFailedMsg struct {
	Err error
}

// LogRecordMsg carries one formatted log line for the debug pane.
type LogRecordMsg struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   string
}

// StatusMsg displays a status line message.
type StatusMsg struct {
	Text       string
	Persistent bool // survives the next full redraw
	IsError    bool
}

// ShowStatus returns a command to show a status message.
func ShowStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text}
	}
}

// ShowError returns a command to show an error on the status line.
func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: err.Error(), IsError: true}
	}
}
