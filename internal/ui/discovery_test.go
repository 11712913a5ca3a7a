package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/styles"
)

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestDiscovery_Columns(t *testing.T) {
	st := keymap.NewStack()
	_ = st.Register([]keys.Key{"q"}, "Quit", nil)
	_ = st.Register([]keys.Key{"C-n", keys.Down}, "Next", nil)
	_ = st.Register([]keys.Key{"RET"}, "Select", nil)
	st.AddHint("Type to search")

	d := NewDiscovery(styles.New(styles.MonoTheme))
	lines := plainLines(d.Render(st.Current(), 80, 3))

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "───") {
		t.Errorf("first line is not a rule: %q", lines[0])
	}
	if !strings.Contains(lines[1], "q") || !strings.Contains(lines[1], "Quit") {
		t.Errorf("row 1 = %q, want q Quit", lines[1])
	}
	if !strings.Contains(lines[2], "C-n DOWN Next") {
		t.Errorf("row 2 = %q, want joined keys then description", lines[2])
	}
	// third entry overflows into a second column on row 1, followed by the hint
	if !strings.Contains(lines[1], "RET Select") || !strings.Contains(lines[1], "Type to search") {
		t.Errorf("row 1 = %q, want second column and hint", lines[1])
	}
	if strings.Index(lines[1], "RET") > strings.Index(lines[1], "Type to search") {
		t.Errorf("hint rendered before bindings: %q", lines[1])
	}
}

func TestDiscovery_TruncatesToWidth(t *testing.T) {
	st := keymap.NewStack()
	_ = st.Register([]keys.Key{"x"}, strings.Repeat("long description ", 10), nil)

	out := NewDiscovery(styles.New(styles.DefaultTheme)).Render(st.Current(), 20, 2)
	for i, l := range strings.Split(out, "\n") {
		if w := ansi.StringWidth(l); w > 20 {
			t.Errorf("line %d width %d exceeds 20", i, w)
		}
	}
}

func TestDiscovery_EmptyScope(t *testing.T) {
	out := NewDiscovery(styles.New(styles.MonoTheme)).Render(keymap.NewStack().Current(), 10, 5)
	if n := len(strings.Split(out, "\n")); n != 5 {
		t.Errorf("got %d lines, want 5", n)
	}
}

func TestStatusLine(t *testing.T) {
	st := styles.New(styles.MonoTheme)
	got := ansi.Strip(StatusLine(st, "Loaded 3 issues\nsecond", LevelInfo, 30))
	if !strings.HasPrefix(got, "Loaded 3 issues second") {
		t.Errorf("StatusLine() = %q", got)
	}
	if w := ansi.StringWidth(got); w != 30 {
		t.Errorf("width = %d, want 30", w)
	}
}

func TestDebugPane(t *testing.T) {
	st := styles.New(styles.MonoTheme)
	logs := []string{"one", "two", "three", "four"}
	lines := plainLines(DebugPane(st, logs, 20, 3))
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[1] != "three" || lines[2] != "four" {
		t.Errorf("pane shows %q, want the last two lines", lines[1:])
	}
}

func TestHelp_Render(t *testing.T) {
	st := keymap.NewStack()
	_ = st.Register([]keys.Key{"q"}, "Quit", nil)
	_ = st.Register([]keys.Key{"i"}, "Issues", nil)

	h := NewHelp(styles.New(styles.MonoTheme))
	out := h.Render(strings.Repeat("background\n", 20), st.Current(), 60, 20)
	plain := ansi.Strip(out)
	if !strings.Contains(plain, "Key bindings") || !strings.Contains(plain, "Issues") {
		t.Errorf("help overlay missing content:\n%s", plain)
	}
	if n := len(strings.Split(out, "\n")); n != 20 {
		t.Errorf("got %d lines, want 20", n)
	}
}
