package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/msg"
)

// Pump reads keys from dec until the input closes or ctx is done, and
// hands each result to send. A read that times out becomes a
// msg.TickMsg. Decode errors are reported and reading resumes; any other
// error ends the pump with a msg.InputClosedMsg.
//
// Pump is the only reader of the terminal. Everything it produces is
// processed by the loop goroutine, one message at a time.
func Pump(ctx context.Context, dec *keys.Decoder, send func(tea.Msg)) {
	for {
		if ctx.Err() != nil {
			return
		}
		key, err := dec.Next()
		if ctx.Err() != nil {
			return
		}

		var decodeErr *keys.DecodeError
		switch {
		case errors.As(err, &decodeErr):
			send(msg.DecodeErrorMsg{Err: decodeErr})
		case err != nil:
			send(msg.InputClosedMsg{Err: err})
			return
		case key == keys.None:
			send(msg.TickMsg{})
		default:
			send(msg.KeyMsg{Key: key})
		}
	}
}
