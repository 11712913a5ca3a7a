package views

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/marcus/fathom/internal/app"
	"github.com/marcus/fathom/internal/issue"
	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/screen"
	"github.com/marcus/fathom/internal/search"
	"github.com/marcus/fathom/internal/ui"
	"github.com/marcus/fathom/internal/view"
)

const (
	searchPrompt = "Incremental search: "
	keyColumn    = 15
)

// Search is the incremental issue search. Typed characters edit the query;
// the result list is filtered after every keystroke.
type Search struct {
	view.Base
	ctx *app.Context

	engine     *search.Engine
	generation int
	built      bool

	query    string
	searched string
	dirty    bool
	results  []search.Document

	// selected is not sticky: it stays at the same position when the
	// result list changes.
	selected int
	top      int
	pageSize int
}

// NewSearch returns an issue search over the current snapshot.
func NewSearch(ctx *app.Context) *Search {
	s := &Search{ctx: ctx, dirty: true, pageSize: 1}
	s.sync()
	return s
}

// Name implements view.View.
func (s *Search) Name() string { return "search" }

// Query returns the current query text.
func (s *Search) Query() string { return s.query }

// Selected returns the index of the highlighted result.
func (s *Search) Selected() int { return s.selected }

// Results returns the current result documents.
func (s *Search) Results() []search.Document { return s.results }

// OnEnter implements view.View.
func (s *Search) OnEnter() {
	ctx := s.ctx
	ctx.Bindings.Push()
	must(ctx, ctx.Bindings.RegisterAll(keymap.BindingSet{
		Entries: []keymap.Entry{
			keymap.Bind("Back", func() { ctx.Nav.Back() }, "C-g"),
			keymap.Bind("Select", s.open, keys.Return),
			keymap.Bind("Next", func() { s.move(1) }, "C-n", keys.Down),
			keymap.Bind("Previous", func() { s.move(-1) }, "C-p", keys.Up),
			keymap.Bind("Page down", func() { s.move(s.pageSize) }, keys.PageDown),
			keymap.Bind("Page up", func() { s.move(-s.pageSize) }, keys.PageUp),
			keymap.Bind("Help", ctx.ToggleHelp, keys.F1),
		},
	}))
	ctx.Bindings.SetRenderCallback(s.beforeRender)
	ctx.Bindings.AddHint("Type to search incrementally")
	s.sync()
}

// OnLeave implements view.View.
func (s *Search) OnLeave() view.Transition {
	must(s.ctx, s.ctx.Bindings.Pop())
	return view.Proceed
}

// OnDrop implements view.View.
func (s *Search) OnDrop() {
	s.engine = nil
	s.results = nil
}

// Tick implements view.View.
func (s *Search) Tick() { s.sync() }

func (s *Search) beforeRender() {
	s.sync()
	n := len(s.results)
	setEnabled(s.ctx, s.selected < n-1, "C-n", keys.Down, keys.PageDown)
	setEnabled(s.ctx, s.selected > 0, "C-p", keys.Up, keys.PageUp)
	setEnabled(s.ctx, n > 0, keys.Return)
}

// sync rebuilds the engine when a new snapshot arrived and reruns the
// query when it changed.
func (s *Search) sync() {
	snap, gen := s.ctx.Snapshot()
	if !s.built || gen != s.generation {
		engine, err := search.New(snap.Docs, issue.Extract)
		if err != nil {
			s.ctx.Logger.Error("search: indexing failed", "error", err)
			s.ctx.SetStatus(app.Status{
				Text:       "Cannot index documents: " + err.Error(),
				Level:      ui.LevelError,
				Persistent: true,
			})
			engine, _ = search.New(nil, issue.Extract)
		}
		s.engine = engine
		s.generation = gen
		s.built = true
		s.dirty = true
	}
	if !s.dirty && s.searched == s.query {
		return
	}

	s.engine.Search(s.query)
	s.searched = s.query
	s.dirty = false
	s.results = s.engine.Results(s.ctx.Config.UI.MaxResults)
	s.clamp()
	s.ctx.Logger.Debug("search: cached queries", "keys", s.engine.CacheKeys(), "results", s.engine.Count())
}

func (s *Search) clamp() {
	if s.selected >= len(s.results) {
		s.selected = len(s.results) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *Search) move(delta int) {
	s.selected += delta
	s.clamp()
}

func (s *Search) open() {
	if len(s.results) == 0 {
		return
	}
	d, err := NewDetail(s.ctx, s.results[s.selected])
	if err != nil {
		s.ctx.Error(err)
		return
	}
	s.ctx.Nav.Navigate(d)
}

// Keypress implements view.View. Unbound keys edit the query.
func (s *Search) Keypress(key keys.Key) {
	switch {
	case key == keys.Backspace:
		if r := []rune(s.query); len(r) > 0 {
			s.query = string(r[:len(r)-1])
		}
	case key == keys.MetaBackspace:
		s.query = deleteLastWord(s.query)
	case key.IsRune():
		s.query += string(key)
	default:
		s.ctx.Logger.Debug("search: unhandled key", "key", key)
		return
	}
	s.sync()
}

// deleteLastWord removes the last word of q, keeping the space before it.
func deleteLastWord(q string) string {
	pos := strings.LastIndex(strings.TrimRight(q, " "), " ")
	if pos == -1 {
		return ""
	}
	return q[:pos+1]
}

// Redraw implements view.View.
func (s *Search) Redraw(sf screen.Surface, _ int) {
	st := s.ctx.Styles
	width, height := sf.Size()
	if height <= 0 {
		return
	}

	counter := fmt.Sprintf("%d/%d", s.engine.Count(), s.engine.Len())
	prompt := st.Prompt.Render(searchPrompt) + st.Body.Render(s.query) + st.Accent.Render("▏")
	gap := max(width-runewidth.StringWidth(searchPrompt+s.query)-1-len(counter), 1)
	sf.Put(0, prompt+strings.Repeat(" ", gap)+st.Muted.Render(counter))

	rows := height - 1
	s.pageSize = max(rows, 1)
	if s.selected < s.top {
		s.top = s.selected
	}
	if s.selected >= s.top+rows {
		s.top = s.selected - rows + 1
	}
	s.top = max(min(s.top, len(s.results)-rows), 0)

	for row := 0; row < rows && s.top+row < len(s.results); row++ {
		i := s.top + row
		sf.Put(row+1, s.resultLine(s.results[i], i == s.selected, width))
	}
}

func (s *Search) resultLine(doc search.Document, selected bool, width int) string {
	st := s.ctx.Styles
	keyStyle, summaryStyle := st.IssueKey, st.Summary
	if selected {
		keyStyle, summaryStyle = st.IssueKeySelected, st.SummarySelected
	}

	key, summary := "?", ""
	if iss, err := issue.FromDocument(doc); err == nil {
		key, summary = iss.Key, iss.Summary
	}
	key = runewidth.FillRight(runewidth.Truncate(key, keyColumn-1, "…"), keyColumn)
	summaryWidth := max(width-keyColumn, 0)
	summary = runewidth.FillRight(runewidth.Truncate(summary, summaryWidth, "…"), summaryWidth)
	return keyStyle.Render(key) + summaryStyle.Render(summary)
}
