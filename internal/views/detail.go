package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/app"
	"github.com/marcus/fathom/internal/issue"
	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/msg"
	"github.com/marcus/fathom/internal/screen"
	"github.com/marcus/fathom/internal/view"
)

const fastScroll = 10

// Sub-menus of the issue view.
const (
	menuNone        = ""
	menuTransitions = "transitions"
	menuWorklog     = "worklog"
)

// transitions offered by the transitions menu, in display order.
var transitions = []struct {
	key   keys.Key
	label string
}{
	{"d", "Done"},
	{"t", "To Do"},
	{"p", "In Progress"},
}

// Detail shows one issue: header, rendered description and worklogs.
// Scrolling uses the navigator's scroll offset, so it is kept per view.
type Detail struct {
	view.Base
	common

	doc   any
	issue issue.Issue

	vp           viewport.Model
	content      string
	contentWidth int
	stale        bool
	maxScroll    int

	raw         bool
	newestFirst bool
	menu        string
	pending     string
}

// NewDetail returns the view of the issue in doc.
func NewDetail(ctx *app.Context, doc any) (*Detail, error) {
	iss, err := issue.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &Detail{
		common: common{ctx: ctx},
		doc:    doc,
		issue:  iss,
		vp:     viewport.New(0, 0),
		stale:  true,
	}, nil
}

// Name implements view.View.
func (d *Detail) Name() string { return "issue " + d.issue.Key }

// Menu returns the open sub-menu, or "" when none is open.
func (d *Detail) Menu() string { return d.menu }

// Pending returns the staged transition label.
func (d *Detail) Pending() string { return d.pending }

// OnEnter implements view.View.
func (d *Detail) OnEnter() {
	d.enter()
	must(d.ctx, d.ctx.Bindings.RegisterAll(keymap.BindingSet{
		Entries: []keymap.Entry{
			keymap.Bind("Worklogs", d.openWorklogMenu, "w"),
			keymap.Bind("Transitions", d.openTransitionsMenu, "t"),
			keymap.Bind("Raw JSON", d.toggleRaw, "r"),
			keymap.Bind("Copy key", d.yank, "y"),
			keymap.Bind("Scroll down", func() { d.scroll(1) }, "n", keys.Down),
			keymap.Bind("Scroll down x10", func() { d.scroll(fastScroll) }, "N"),
			keymap.Bind("Scroll up", func() { d.scroll(-1) }, "p", keys.Up),
			keymap.Bind("Scroll up x10", func() { d.scroll(-fastScroll) }, "P"),
		},
		RenderCallback: func() {
			scroll := d.ctx.Nav.Scroll()
			setEnabled(d.ctx, scroll < d.maxScroll, "n", keys.Down, "N")
			setEnabled(d.ctx, scroll > 0, "p", keys.Up, "P")
		},
	}))
}

// OnLeave implements view.View. Leaving with a sub-menu open only closes
// the menu.
func (d *Detail) OnLeave() view.Transition {
	if d.menu != menuNone {
		d.closeMenu()
		return view.Veto
	}
	return d.leave()
}

func (d *Detail) scroll(delta int) {
	d.ctx.Nav.SetScroll(min(d.ctx.Nav.Scroll()+delta, d.maxScroll))
}

func (d *Detail) toggleRaw() {
	d.raw = !d.raw
	d.stale = true
	d.ctx.Nav.SetScroll(0)
}

func (d *Detail) yank() {
	key := d.issue.Key
	d.ctx.Exec(func() tea.Msg {
		if err := clipboard.WriteAll(key); err != nil {
			return msg.StatusMsg{Text: "Copy failed: " + err.Error(), IsError: true}
		}
		return msg.StatusMsg{Text: "Copied " + key}
	})
}

func (d *Detail) openTransitionsMenu() {
	entries := []keymap.Entry{keymap.Bind("Back to issue", d.closeMenu, "q")}
	for _, tr := range transitions {
		entries = append(entries, keymap.Bind(tr.label, func() { d.stage(tr.label) }, tr.key))
	}
	d.openMenu(menuTransitions, entries)
}

func (d *Detail) openWorklogMenu() {
	d.openMenu(menuWorklog, []keymap.Entry{
		keymap.Bind("Back to issue", d.closeMenu, "q"),
		keymap.Bind("Toggle order", d.toggleOrder, "o"),
		keymap.Bind("Add worklog", nil, "a"),
		keymap.Bind("Delete worklog", nil, "d"),
		keymap.Bind("Edit worklog", nil, "e"),
	})
	// editing needs a tracker connection
	must(d.ctx, d.ctx.Bindings.Disable("a", "d", "e"))
}

func (d *Detail) openMenu(name string, entries []keymap.Entry) {
	must(d.ctx, d.ctx.Bindings.RegisterAll(keymap.BindingSet{Entries: entries, Push: true}))
	d.menu = name
}

func (d *Detail) closeMenu() {
	must(d.ctx, d.ctx.Bindings.Pop())
	d.menu = menuNone
}

func (d *Detail) stage(label string) {
	d.pending = label
	d.stale = true
	d.closeMenu()
	d.ctx.Info(fmt.Sprintf("Transition of %s to %s staged", d.issue.Key, label))
	d.ctx.Logger.Info("detail: transition staged", "issue", d.issue.Key, "to", label)
}

func (d *Detail) toggleOrder() {
	d.newestFirst = !d.newestFirst
	d.stale = true
}

// Redraw implements view.View.
func (d *Detail) Redraw(s screen.Surface, scroll int) {
	width, height := s.Size()
	if d.stale || width != d.contentWidth {
		d.content = d.render(width)
		d.contentWidth = width
		d.stale = false
		d.vp.SetContent(d.content)
	}
	d.vp.Width = width
	d.vp.Height = height
	d.maxScroll = max(d.vp.TotalLineCount()-height, 0)
	d.vp.SetYOffset(min(scroll, d.maxScroll))
	screen.PutLines(s, 0, strings.Split(d.vp.View(), "\n"))
}

func (d *Detail) render(width int) string {
	if d.raw {
		out, err := d.ctx.Renderer.JSON(d.doc)
		if err != nil {
			return d.ctx.Styles.StatusError.Render(err.Error())
		}
		return out
	}

	st := d.ctx.Styles
	iss := d.issue
	orNone := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}

	lines := []string{
		st.IssueKey.Render(iss.Key) + "  " + st.Title.Render(iss.Summary),
		st.Muted.Render("Status: ") + st.Body.Render(orNone(iss.Status)) +
			st.Muted.Render("   Assignee: ") + st.Body.Render(orNone(iss.Assignee)) +
			st.Muted.Render("   Reporter: ") + st.Body.Render(orNone(iss.Reporter)),
	}
	if d.pending != "" {
		lines = append(lines, st.Accent.Render("Pending transition: "+d.pending))
	}
	lines = append(lines, "")

	if strings.TrimSpace(iss.Description) == "" {
		lines = append(lines, st.Muted.Render("No description"))
	} else if md, err := d.ctx.Renderer.Markdown(iss.Description, width); err != nil {
		d.ctx.Logger.Warn("detail: markdown rendering failed", "issue", iss.Key, "error", err)
		lines = append(lines, iss.Description)
	} else {
		lines = append(lines, strings.TrimRight(md, "\n"))
	}

	lines = append(lines, "", st.Subtitle.Render(fmt.Sprintf("Worklogs (%d)", len(iss.Worklogs))))
	worklogs := iss.Worklogs
	if d.newestFirst {
		worklogs = slices.Clone(worklogs)
		slices.Reverse(worklogs)
	}
	for _, w := range worklogs {
		line := fmt.Sprintf("  %s  %s  %s", st.Muted.Render(w.Started), st.Body.Render(w.Author), st.Accent.Render(w.TimeSpent))
		if w.Comment != "" {
			line += "  " + w.Comment
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
