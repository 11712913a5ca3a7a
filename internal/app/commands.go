package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/msg"
)

// reloadTimeout bounds one background document load.
const reloadTimeout = 30 * time.Second

// ReloadCmd returns a command that runs load and reports the outcome as a
// msg.DocumentsLoadedMsg or msg.DocumentsFailedMsg.
func ReloadCmd(load Loader, manual bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		snap, err := load(ctx)
		if err != nil {
			return msg.DocumentsFailedMsg{Err: err}
		}
		return msg.DocumentsLoadedMsg{Snapshot: snap, Manual: manual}
	}
}
