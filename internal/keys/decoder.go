package keys

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

const (
	esc = 0x1b
	del = 0x7f

	// maxParams bounds a CSI parameter list so a stream of digits cannot
	// grow the pending sequence forever.
	maxParams = 8
)

var arrowKeys = map[rune]Key{
	'A': Up,
	'B': Down,
	'C': Right,
	'D': Left,
}

var ss3Keys = map[Key]Key{
	"P": F1,
	"Q": F2,
	"R": F3,
	"S": F4,
}

// tildeKeys maps the numeric code of ESC [ <code> ~ to a key name.
var tildeKeys = map[string]Key{
	"1":  Home,
	"2":  Insert,
	"3":  Delete,
	"4":  End,
	"5":  PageUp,
	"6":  PageDown,
	"15": F5,
	"17": F6,
	"18": F7,
	"19": F8,
	"20": F9,
	"21": F10,
	"23": F11,
	"24": F12,
}

// modifierPrefixes maps the xterm modifier parameter to a key prefix.
// Unknown modifiers resolve to no prefix.
var modifierPrefixes = map[string]string{
	"3": "M-",
	"5": "C-",
}

// Decoder turns input units read from a Source into logical keys. Each call
// to Next consumes exactly the units of one key.
type Decoder struct {
	src           Source
	timeout       time.Duration
	escapeTimeout time.Duration
}

// NewDecoder creates a decoder. timeout bounds the wait for the first unit
// of a key; when it expires Next returns None, which the loop turns into a
// tick. escapeTimeout bounds the wait for each continuation unit after ESC.
func NewDecoder(src Source, timeout, escapeTimeout time.Duration) *Decoder {
	if escapeTimeout <= 0 {
		escapeTimeout = timeout
	}
	return &Decoder{src: src, timeout: timeout, escapeTimeout: escapeTimeout}
}

// Next reads and decodes one key. It returns None with a nil error when the
// read timed out, a *DecodeError for an unrecognized escape continuation,
// and any other Source error (such as ErrClosed) unchanged.
func (d *Decoder) Next() (Key, error) {
	r, err := d.src.ReadUnit(d.timeout)
	if errors.Is(err, ErrTimeout) {
		return None, nil
	}
	if err != nil {
		return None, err
	}

	switch r {
	case del:
		return Backspace, nil
	case esc:
		return d.meta()
	}
	return decodeControl(r), nil
}

// decodeControl converts control codes 0x01-0x1A into "C-<letter>", with
// TAB and RET special-cased. Any other unit passes through unchanged.
func decodeControl(r rune) Key {
	switch {
	case r == '\n':
		return Return
	case r == '\t':
		return Tab
	case r >= 0x01 && r <= 0x1a:
		return Key("C-" + string('a'+r-1))
	}
	return Key(string(r))
}

func (d *Decoder) meta() (Key, error) {
	r, err := d.src.ReadUnit(d.escapeTimeout)
	if errors.Is(err, ErrTimeout) {
		return Escape, nil
	}
	if err != nil {
		return None, err
	}
	if r == del {
		return MetaBackspace, nil
	}

	inner := decodeControl(r)
	if runes := []rune(string(inner)); len(runes) == 1 && unicode.IsUpper(runes[0]) {
		inner = Key("S-" + string(unicode.ToLower(runes[0])))
	}
	key := "M-" + string(inner)
	if rest, ok := strings.CutPrefix(key, "M-C-"); ok {
		key = "C-M-" + rest
	}

	switch Key(key) {
	case MetaShiftO:
		return d.ss3()
	case MetaBracket:
		return d.csi()
	}
	return Key(key), nil
}

// ss3 decodes the unit following ESC O.
func (d *Decoder) ss3() (Key, error) {
	r, err := d.src.ReadUnit(d.escapeTimeout)
	if errors.Is(err, ErrTimeout) {
		return MetaShiftO, nil
	}
	if err != nil {
		return None, err
	}
	if key, ok := ss3Keys[decodeControl(r)]; ok {
		return key, nil
	}
	return None, &DecodeError{
		Sequence: "\x1bO" + string(r),
		Reason:   "unknown SS3 key",
	}
}

// csi decodes the units following ESC [.
func (d *Decoder) csi() (Key, error) {
	var params []rune
	for {
		r, err := d.src.ReadUnit(d.escapeTimeout)
		if errors.Is(err, ErrTimeout) {
			if len(params) == 0 {
				return MetaBracket, nil
			}
			return None, &DecodeError{
				Sequence: "\x1b[" + string(params),
				Reason:   "incomplete sequence",
			}
		}
		if err != nil {
			return None, err
		}

		seq := "\x1b[" + string(params) + string(r)
		switch {
		case arrowKeys[r] != "":
			prefix, _, err := splitParams(seq, params)
			if err != nil {
				return None, err
			}
			return Key(prefix) + arrowKeys[r], nil

		case r == '~':
			if len(params) == 0 {
				return None, &DecodeError{Sequence: seq, Reason: "missing key code"}
			}
			prefix, code, err := splitParams(seq, params)
			if err != nil {
				return None, err
			}
			key, ok := tildeKeys[code]
			if !ok {
				return None, &DecodeError{Sequence: seq, Reason: "unknown key code " + code}
			}
			return Key(prefix) + key, nil

		case (r >= '0' && r <= '9') || r == ';':
			if len(params) >= maxParams {
				return None, d.skip(seq, "parameter list too long")
			}
			params = append(params, r)

		case isFinal(r):
			return None, &DecodeError{Sequence: seq, Reason: "unexpected character"}

		default:
			return None, d.skip(seq, "unexpected character")
		}
	}
}

// isFinal reports whether r ends a CSI sequence.
func isFinal(r rune) bool {
	return r >= 0x40 && r <= 0x7e
}

// skip consumes the rest of a rejected CSI sequence, up to and including
// its final unit, so the remaining units are not decoded as keys. It stops
// early when the escape timeout expires.
func (d *Decoder) skip(seq, reason string) *DecodeError {
	for {
		r, err := d.src.ReadUnit(d.escapeTimeout)
		if err != nil {
			break
		}
		seq += string(r)
		if isFinal(r) {
			break
		}
	}
	return &DecodeError{Sequence: seq, Reason: reason}
}

// splitParams splits "<code>[;<mod>]" into the modifier prefix and the code.
func splitParams(seq string, params []rune) (prefix, code string, err error) {
	parts := strings.Split(string(params), ";")
	switch len(parts) {
	case 1:
		return "", parts[0], nil
	case 2:
		return modifierPrefixes[parts[1]], parts[0], nil
	}
	return "", "", &DecodeError{Sequence: seq, Reason: "too many parameters"}
}
