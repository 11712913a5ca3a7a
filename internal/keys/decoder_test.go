package keys

import (
	"errors"
	"testing"
	"time"
)

// timeoutUnit marks a position in a script where the source times out.
const timeoutUnit rune = -1

// scriptSource replays a fixed sequence of units. Running past the end of
// the script behaves like a timeout.
type scriptSource struct {
	units []rune
	pos   int
}

func (s *scriptSource) ReadUnit(time.Duration) (rune, error) {
	if s.pos >= len(s.units) {
		return 0, ErrTimeout
	}
	r := s.units[s.pos]
	s.pos++
	if r == timeoutUnit {
		return 0, ErrTimeout
	}
	return r, nil
}

func script(parts ...any) *scriptSource {
	src := &scriptSource{}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			src.units = append(src.units, []rune(v)...)
		case rune:
			src.units = append(src.units, v)
		case int:
			src.units = append(src.units, rune(v))
		}
	}
	return src
}

func decodeOne(t *testing.T, src Source) Key {
	t.Helper()
	key, err := NewDecoder(src, time.Millisecond, time.Millisecond).Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	return key
}

func TestDecoder_SingleUnits(t *testing.T) {
	tests := []struct {
		name string
		unit rune
		want Key
	}{
		{"control a", 0x01, "C-a"},
		{"control n", 0x0e, "C-n"},
		{"control z", 0x1a, "C-z"},
		{"tab", 0x09, Tab},
		{"newline", 0x0a, Return},
		{"carriage return", 0x0d, "C-m"},
		{"delete", 0x7f, Backspace},
		{"lowercase", 'a', "a"},
		{"uppercase", 'Q', "Q"},
		{"space", ' ', " "},
		{"unicode", 'ż', "ż"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeOne(t, script(tt.unit)); got != tt.want {
				t.Errorf("decode(%#x) = %q, want %q", tt.unit, got, tt.want)
			}
		})
	}
}

func TestDecoder_Timeout(t *testing.T) {
	if got := decodeOne(t, script()); got != None {
		t.Errorf("timeout decoded as %q, want None", got)
	}
}

func TestDecoder_EscapeSequences(t *testing.T) {
	tests := []struct {
		name string
		src  *scriptSource
		want Key
	}{
		{"escape alone", script(esc), Escape},
		{"escape then timeout", script(esc, timeoutUnit, "a"), Escape},
		{"meta letter", script(esc, "x"), "M-x"},
		{"meta shifted letter", script(esc, "X"), "M-S-x"},
		{"meta control", script(esc, 0x01), "C-M-a"},
		{"meta return", script(esc, 0x0a), "M-RET"},
		{"meta tab", script(esc, 0x09), "M-TAB"},
		{"meta digit", script(esc, "1"), "M-1"},
		{"meta backspace", script(esc, 0x7f), MetaBackspace},
		{"f1", script(esc, "OP"), F1},
		{"f2", script(esc, "OQ"), F2},
		{"f3", script(esc, "OR"), F3},
		{"f4", script(esc, "OS"), F4},
		{"meta shift o", script(esc, "O"), MetaShiftO},
		{"up", script(esc, "[A"), Up},
		{"down", script(esc, "[B"), Down},
		{"right", script(esc, "[C"), Right},
		{"left", script(esc, "[D"), Left},
		{"control up", script(esc, "[1;5A"), "C-UP"},
		{"meta bracket", script(esc, "["), MetaBracket},
		{"home", script(esc, "[1~"), Home},
		{"insert", script(esc, "[2~"), Insert},
		{"delete", script(esc, "[3~"), Delete},
		{"end", script(esc, "[4~"), End},
		{"page up", script(esc, "[5~"), PageUp},
		{"page down", script(esc, "[6~"), PageDown},
		{"f5", script(esc, "[15~"), F5},
		{"f6", script(esc, "[17~"), F6},
		{"f7", script(esc, "[18~"), F7},
		{"f8", script(esc, "[19~"), F8},
		{"f9", script(esc, "[20~"), F9},
		{"f10", script(esc, "[21~"), F10},
		{"f11", script(esc, "[23~"), F11},
		{"f12", script(esc, "[24~"), F12},
		{"control home", script(esc, "[1;5~"), "C-HOME"},
		{"meta delete", script(esc, "[3;3~"), "M-DELETE"},
		{"unknown modifier", script(esc, "[3;2~"), Delete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeOne(t, tt.src); got != tt.want {
				t.Errorf("decoded %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecoder_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  *scriptSource
	}{
		{"unknown ss3", script(esc, "OX")},
		{"unknown tilde code", script(esc, "[9~")},
		{"empty tilde", script(esc, "[~")},
		{"unexpected character", script(esc, "[1x")},
		{"incomplete parameters", script(esc, "[12")},
		{"too many parameters", script(esc, "[1;5;3~")},
		{"parameter overflow", script(esc, "[123456789~")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(tt.src, time.Millisecond, time.Millisecond).Next()
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Next() error = %v, want *DecodeError", err)
			}
		})
	}
}

func TestDecoder_ResumesAfterDecodeError(t *testing.T) {
	src := script(esc, "OX", esc, "[<0;12;34M", esc, "[A", "q")
	dec := NewDecoder(src, time.Millisecond, time.Millisecond)

	if _, err := dec.Next(); err == nil {
		t.Fatal("expected decode error for ESC O X")
	}
	if _, err := dec.Next(); err == nil {
		t.Fatal("expected decode error for a mouse report")
	}
	for _, want := range []Key{Up, "q", None} {
		got, err := dec.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Errorf("Next() = %q, want %q", got, want)
		}
	}
}

func TestDecoder_SkipsRestOfRejectedSequence(t *testing.T) {
	tests := []struct {
		name string
		src  *scriptSource
		seq  string
	}{
		{"parameter overflow", script(esc, "[123456789~", "q"), "\x1b[123456789~"},
		{"mouse report", script(esc, "[<0;12;34M", "q"), "\x1b[<0;12;34M"},
		{"private parameters", script(esc, "[?25h", "q"), "\x1b[?25h"},
		{"timeout mid sequence", script(esc, "[<0;1", timeoutUnit, "q"), "\x1b[<0;1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(tt.src, time.Millisecond, time.Millisecond)
			_, err := dec.Next()
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Next() error = %v, want *DecodeError", err)
			}
			if decErr.Sequence != tt.seq {
				t.Errorf("Sequence = %q, want %q", decErr.Sequence, tt.seq)
			}
			for _, want := range []Key{"q", None} {
				got, err := dec.Next()
				if err != nil {
					t.Fatalf("Next() error = %v", err)
				}
				if got != want {
					t.Errorf("Next() = %q, want %q", got, want)
				}
			}
		})
	}
}

func TestDecoder_ConsumesOnlyOneKey(t *testing.T) {
	src := script(esc, "[3~", 0x01, "x")
	dec := NewDecoder(src, time.Millisecond, time.Millisecond)

	var got []Key
	for i := 0; i < 3; i++ {
		key, err := dec.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, key)
	}
	want := []Key{Delete, "C-a", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
}

type closedSource struct{}

func (closedSource) ReadUnit(time.Duration) (rune, error) { return 0, ErrClosed }

func TestDecoder_PropagatesSourceErrors(t *testing.T) {
	_, err := NewDecoder(closedSource{}, time.Millisecond, 0).Next()
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Next() error = %v, want ErrClosed", err)
	}
}

func TestKey_IsRune(t *testing.T) {
	tests := []struct {
		key  Key
		want bool
	}{
		{"a", true},
		{" ", true},
		{"ż", true},
		{"C-a", false},
		{Return, false},
		{None, false},
		{"\x1b", false},
	}
	for _, tt := range tests {
		if got := tt.key.IsRune(); got != tt.want {
			t.Errorf("Key(%q).IsRune() = %v, want %v", tt.key, got, tt.want)
		}
	}
}
