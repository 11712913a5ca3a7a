package keymap

import (
	"errors"
	"testing"

	"github.com/marcus/fathom/internal/keys"
)

func counter() (*int, Action) {
	n := new(int)
	return n, func() { *n++ }
}

func TestStack_RegisterConflict(t *testing.T) {
	st := NewStack()
	if err := st.Register([]keys.Key{"q"}, "Quit", nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := st.Register([]keys.Key{"q"}, "Query", nil)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Register() error = %v, want *ConflictError", err)
	}
	if conflict.Key != "q" {
		t.Errorf("conflict key = %q, want q", conflict.Key)
	}
}

func TestStack_RegisterConflictAddsNothing(t *testing.T) {
	st := NewStack()
	_ = st.Register([]keys.Key{"b"}, "B", nil)
	if err := st.Register([]keys.Key{"a", "b"}, "AB", nil); err == nil {
		t.Fatal("expected conflict on b")
	}
	if st.Current().Bound("a") {
		t.Error("a was bound by a failed registration")
	}
	if n := len(st.Current().Entries()); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
}

func TestStack_RegisterDuplicateWithinEntry(t *testing.T) {
	st := NewStack()
	err := st.Register([]keys.Key{"x", "x"}, "X", nil)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Register() error = %v, want *ConflictError", err)
	}
}

func TestStack_PushPopRestoresBinding(t *testing.T) {
	st := NewStack()
	quits, quit := counter()
	_ = st.Register([]keys.Key{"q"}, "Quit", quit)

	st.Push()
	closes, closeMenu := counter()
	if err := st.Register([]keys.Key{"q"}, "Close", closeMenu); err != nil {
		t.Fatalf("Register() in pushed scope error = %v", err)
	}
	st.Call("q")
	if err := st.Pop(); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	st.Call("q")

	if *closes != 1 || *quits != 1 {
		t.Errorf("closes = %d quits = %d, want 1 and 1", *closes, *quits)
	}
	entries := st.Current().Entries()
	if len(entries) != 1 || entries[0].Description != "Quit" {
		t.Errorf("root entries = %+v, want the original Quit entry", entries)
	}
}

func TestStack_PopRoot(t *testing.T) {
	st := NewStack()
	if err := st.Pop(); !errors.Is(err, ErrEmptyStack) {
		t.Errorf("Pop() error = %v, want ErrEmptyStack", err)
	}
	if st.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", st.Depth())
	}
}

func TestStack_Call(t *testing.T) {
	st := NewStack()
	n, act := counter()
	_ = st.Register([]keys.Key{"n", keys.Down}, "Next", act)
	_ = st.Register([]keys.Key{"z"}, "Nothing", nil)

	tests := []struct {
		name    string
		key     keys.Key
		claimed bool
		calls   int
	}{
		{"first key", "n", true, 1},
		{"second key", keys.Down, true, 2},
		{"nil action", "z", true, 2},
		{"unbound", "x", false, 2},
	}
	for _, tt := range tests {
		if got := st.Call(tt.key); got != tt.claimed {
			t.Errorf("%s: Call(%q) = %v, want %v", tt.name, tt.key, got, tt.claimed)
		}
		if *n != tt.calls {
			t.Errorf("%s: calls = %d, want %d", tt.name, *n, tt.calls)
		}
	}
}

func TestStack_DisabledKeyClaimsWithoutAction(t *testing.T) {
	st := NewStack()
	n, act := counter()
	_ = st.Register([]keys.Key{"p", keys.Up}, "Prev", act)

	if err := st.Disable("p"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if !st.Call("p") {
		t.Error("disabled key was not claimed")
	}
	if *n != 0 {
		t.Errorf("disabled action ran %d times", *n)
	}
	if !st.Call(keys.Up) || *n != 1 {
		t.Errorf("other key of the entry should still run, calls = %d", *n)
	}
	scope := st.Current()
	if !scope.EntryDisabled(scope.Entries()[0]) {
		t.Error("entry with a disabled key should render disabled")
	}

	if err := st.Enable("p"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	st.Call("p")
	if *n != 2 {
		t.Errorf("calls after Enable = %d, want 2", *n)
	}
}

func TestStack_EnableUnknownKey(t *testing.T) {
	st := NewStack()
	_ = st.Register([]keys.Key{"a"}, "A", nil)

	for _, fn := range []func(...keys.Key) error{st.Enable, st.Disable} {
		err := fn("a", "b")
		var unknown *UnknownKeyError
		if !errors.As(err, &unknown) || unknown.Key != "b" {
			t.Errorf("error = %v, want UnknownKeyError for b", err)
		}
	}
	if st.Current().Disabled("a") {
		t.Error("a was disabled by a failed call")
	}
}

func TestStack_RegisterAll(t *testing.T) {
	st := NewStack()
	_ = st.Register([]keys.Key{"q"}, "Quit", nil)

	rendered := false
	err := st.RegisterAll(BindingSet{
		Entries: []Entry{
			Bind("Close", nil, "q"),
			Bind("Start", nil, "s"),
		},
		RenderCallback: func() { rendered = true },
		Push:           true,
	})
	if err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	if st.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", st.Depth())
	}
	entries := st.Current().Entries()
	if len(entries) != 2 || entries[0].Description != "Close" || entries[1].Description != "Start" {
		t.Errorf("entries out of order: %+v", entries)
	}
	if cb := st.Current().RenderCallback(); cb == nil {
		t.Fatal("render callback not installed")
	} else {
		cb()
	}
	if !rendered {
		t.Error("render callback did not run")
	}
}

func TestStack_RegisterAllFailurePopsPushedScope(t *testing.T) {
	st := NewStack()
	err := st.RegisterAll(BindingSet{
		Entries: []Entry{Bind("A", nil, "a"), Bind("Again", nil, "a")},
		Push:    true,
	})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if st.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", st.Depth())
	}
}

func TestStack_Hints(t *testing.T) {
	st := NewStack()
	st.AddHint("Type to search")
	st.Push()
	if len(st.Current().Hints()) != 0 {
		t.Error("pushed scope inherited hints")
	}
	_ = st.Pop()
	if h := st.Current().Hints(); len(h) != 1 || h[0] != "Type to search" {
		t.Errorf("Hints() = %v", h)
	}
}

func TestScope_FullHelp(t *testing.T) {
	st := NewStack()
	for _, k := range []keys.Key{"a", "b", "c", "d", "e"} {
		_ = st.Register([]keys.Key{k}, "do "+string(k), nil)
	}
	_ = st.Disable("c")

	cols := st.Current().FullHelp(2)
	if len(cols) != 3 {
		t.Fatalf("columns = %d, want 3", len(cols))
	}
	if cols[1][0].Enabled() {
		t.Error("binding for disabled key c reported enabled")
	}
	if got := cols[0][1].Help().Desc; got != "do b" {
		t.Errorf("help desc = %q, want %q", got, "do b")
	}
}

func TestStack_SetRenderCallbackIsPerScope(t *testing.T) {
	st := NewStack()
	calls := ""
	st.SetRenderCallback(func() { calls += "root " })
	st.Push()
	if cb := st.Current().RenderCallback(); cb != nil {
		t.Fatal("pushed scope inherited the render callback")
	}
	st.SetRenderCallback(func() { calls += "inner " })
	st.Current().RenderCallback()()
	if err := st.Pop(); err != nil {
		t.Fatal(err)
	}
	st.Current().RenderCallback()()
	if calls != "inner root " {
		t.Errorf("callbacks ran as %q, want %q", calls, "inner root ")
	}
}
