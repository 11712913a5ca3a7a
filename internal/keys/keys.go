// Package keys decodes raw terminal input into logical key tokens.
//
// A logical key is a plain string such as "a", "C-n", "M-S-x", "F5" or "RET".
// The vocabulary is closed: single characters, the named keys below, and
// compositions with the C-, M-, S- and C-M- prefixes.
package keys

import (
	"errors"
	"fmt"
	"time"
)

// Key is one decoded keystroke. The zero value means "no key" (the read
// timed out before any input arrived).
type Key string

// None is returned by Decoder.Next when the read timed out.
const None Key = ""

// Named keys.
const (
	Return    Key = "RET"
	Tab       Key = "TAB"
	Backspace Key = "BACKSPACE"
	Escape    Key = "ESC"
	Up        Key = "UP"
	Down      Key = "DOWN"
	Left      Key = "LEFT"
	Right     Key = "RIGHT"
	Home      Key = "HOME"
	End       Key = "END"
	Insert    Key = "INS"
	Delete    Key = "DELETE"
	PageUp    Key = "PGUP"
	PageDown  Key = "PGDOWN"
	F1        Key = "F1"
	F2        Key = "F2"
	F3        Key = "F3"
	F4        Key = "F4"
	F5        Key = "F5"
	F6        Key = "F6"
	F7        Key = "F7"
	F8        Key = "F8"
	F9        Key = "F9"
	F10       Key = "F10"
	F11       Key = "F11"
	F12       Key = "F12"

	// MetaBracket is produced when ESC [ is followed by nothing.
	MetaBracket Key = "M-["
	// MetaShiftO is produced when ESC O is followed by nothing.
	MetaShiftO Key = "M-S-o"
	// MetaBackspace is ESC followed by DEL.
	MetaBackspace Key = "M-BACKSPACE"
)

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// IsRune reports whether the key is a single printable character that a
// text input should insert.
func (k Key) IsRune() bool {
	r := []rune(string(k))
	return len(r) == 1 && r[0] >= 0x20 && r[0] != 0x7f
}

// ErrTimeout is returned by a Source when no input unit arrived in time.
var ErrTimeout = errors.New("keys: read timeout")

// ErrClosed is returned by a Source after it has been closed.
var ErrClosed = errors.New("keys: source closed")

// Source reads one input unit (a code point) from the terminal, waiting at
// most timeout. It returns ErrTimeout when nothing arrived.
type Source interface {
	ReadUnit(timeout time.Duration) (rune, error)
}

// DecodeError reports an escape continuation that does not map to any key.
// The units belonging to the failed sequence have been consumed, so the
// next call to Decoder.Next starts on a fresh key.
type DecodeError struct {
	Sequence string
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("keys: cannot decode escape sequence %q: %s", e.Sequence, e.Reason)
}
