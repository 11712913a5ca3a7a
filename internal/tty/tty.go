// Package tty puts the controlling terminal into raw mode and exposes its
// input as a stream of runes with timed reads, as consumed by keys.Decoder.
package tty

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"

	"github.com/marcus/fathom/internal/keys"
)

type unit struct {
	r   rune
	err error
}

// Reader delivers runes from an input stream with a per-read timeout. A
// background goroutine decodes UTF-8 from the stream into a channel; reads
// that find the channel empty wait at most the requested timeout.
type Reader struct {
	cr    cancelreader.CancelReader
	units chan unit
	done  chan struct{}
	once  sync.Once

	// translateCR maps carriage return to newline, the way a cooked
	// terminal's ICRNL flag would. Raw mode turns that flag off.
	translateCR bool
}

// NewReader starts reading runes from r. Close cancels the pending read
// when the platform supports it.
func NewReader(r io.Reader) (*Reader, error) {
	return newReader(r, false)
}

func newReader(r io.Reader, translateCR bool) (*Reader, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}
	rd := &Reader{
		cr:          cr,
		units:       make(chan unit, 64),
		done:        make(chan struct{}),
		translateCR: translateCR,
	}
	go rd.pump()
	return rd, nil
}

func (rd *Reader) pump() {
	buf := bufio.NewReader(rd.cr)
	for {
		r, _, err := buf.ReadRune()
		if rd.translateCR && r == '\r' {
			r = '\n'
		}
		select {
		case rd.units <- unit{r: r, err: err}:
		case <-rd.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// ReadUnit implements keys.Source.
func (rd *Reader) ReadUnit(timeout time.Duration) (rune, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case u := <-rd.units:
		if u.err != nil {
			if errors.Is(u.err, io.EOF) || errors.Is(u.err, cancelreader.ErrCanceled) {
				return 0, keys.ErrClosed
			}
			return 0, u.err
		}
		return u.r, nil
	case <-expired:
		return 0, keys.ErrTimeout
	case <-rd.done:
		return 0, keys.ErrClosed
	}
}

// Close stops the reader. Pending and future reads return keys.ErrClosed.
func (rd *Reader) Close() error {
	rd.once.Do(func() {
		close(rd.done)
		rd.cr.Cancel()
	})
	return rd.cr.Close()
}

// Terminal is a raw-mode terminal input.
type Terminal struct {
	*Reader
	fd    int
	state *term.State
}

// Open switches in to raw mode when it is a terminal and starts reading.
// Close restores the previous terminal state.
func Open(in *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	t := &Terminal{fd: fd}
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, err
		}
		t.state = state
	}
	rd, err := newReader(in, t.state != nil)
	if err != nil {
		t.restore()
		return nil, err
	}
	t.Reader = rd
	return t, nil
}

// Size returns the terminal dimensions, or 80x24 when unknown.
func (t *Terminal) Size() (width, height int) {
	width, height, err := term.GetSize(t.fd)
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

// Close stops reading and restores the terminal.
func (t *Terminal) Close() error {
	err := t.Reader.Close()
	if rerr := t.restore(); err == nil {
		err = rerr
	}
	return err
}

func (t *Terminal) restore() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(t.fd, state)
}
