package views

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/fathom/internal/app"
	"github.com/marcus/fathom/internal/issue"
	"github.com/marcus/fathom/internal/keymap"
	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/screen"
	"github.com/marcus/fathom/internal/view"
)

const (
	chartMaxHeight = 12
	chartMinWidth  = 20
)

// Dashboard is the home view: a summary of the loaded documents and a
// chart of issues per status.
type Dashboard struct {
	view.Base
	common

	// status counts are recomputed only when the snapshot changes
	counts     []issue.StatusCount
	generation int
	counted    bool
}

// NewDashboard returns the home view.
func NewDashboard(ctx *app.Context) *Dashboard {
	return &Dashboard{common: common{ctx: ctx}}
}

// Name implements view.View.
func (d *Dashboard) Name() string { return "dashboard" }

// OnEnter implements view.View.
func (d *Dashboard) OnEnter() {
	d.enter()
	must(d.ctx, d.ctx.Bindings.RegisterAll(keymap.BindingSet{
		Entries: []keymap.Entry{
			keymap.Bind("Issues", d.openSearch, "i"),
			keymap.Bind("Reload documents", d.ctx.RequestReload, "U"),
		},
		RenderCallback: func() {
			setEnabled(d.ctx, !d.ctx.Reloading(), "U")
		},
	}))
}

// OnLeave implements view.View.
func (d *Dashboard) OnLeave() view.Transition { return d.leave() }

// Keypress implements view.View.
func (d *Dashboard) Keypress(key keys.Key) {
	d.ctx.Logger.Debug("dashboard: unhandled key", "key", key)
}

func (d *Dashboard) openSearch() {
	d.ctx.Nav.Navigate(NewSearch(d.ctx))
}

func (d *Dashboard) statusCounts() []issue.StatusCount {
	snap, gen := d.ctx.Snapshot()
	if !d.counted || gen != d.generation {
		d.counts = issue.CountByStatus(snap.Docs)
		d.generation = gen
		d.counted = true
	}
	return d.counts
}

// Redraw implements view.View.
func (d *Dashboard) Redraw(s screen.Surface, _ int) {
	st := d.ctx.Styles
	width, height := s.Size()
	snap, _ := d.ctx.Snapshot()

	lines := []string{st.Title.Render("Dashboard")}
	if snap.Origin != "" {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("%d documents from %s (%s), loaded %s",
			snap.Len(), snap.Origin, snap.Format, snap.LoadedAt.Format("15:04:05"))))
	} else {
		lines = append(lines, st.Muted.Render("No documents loaded"))
	}
	if d.ctx.Reloading() {
		lines = append(lines, st.Accent.Render("Updating documents…"))
	}
	lines = append(lines, "")

	counts := d.statusCounts()
	if len(counts) > 0 {
		lines = append(lines, st.Subtitle.Render("Issues by status"))
		legend := d.legend(counts)
		chartH := min(chartMaxHeight, height-len(lines)-len(legend)-1)
		if chartH >= 3 && width >= chartMinWidth {
			lines = append(lines, strings.Split(d.chart(counts, min(width, 2+len(counts)*6), chartH), "\n")...)
		}
		lines = append(lines, legend...)
	}
	screen.PutLines(s, 0, lines)
}

// chart draws one bar per status.
func (d *Dashboard) chart(counts []issue.StatusCount, width, height int) string {
	st := d.ctx.Styles
	palette := []lipgloss.Style{st.Accent, st.Subtitle, st.IssueKey, st.Title}
	data := make([]barchart.BarData, len(counts))
	for i, c := range counts {
		data[i] = barchart.BarData{
			Label: shortLabel(c.Status),
			Values: []barchart.BarValue{
				{Name: c.Status, Value: float64(c.Count), Style: palette[i%len(palette)]},
			},
		}
	}
	bc := barchart.New(width, height)
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

func (d *Dashboard) legend(counts []issue.StatusCount) []string {
	st := d.ctx.Styles
	nameWidth := 0
	for _, c := range counts {
		nameWidth = max(nameWidth, lipgloss.Width(c.Status))
	}
	out := make([]string, len(counts))
	for i, c := range counts {
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(c.Status))
		out[i] = fmt.Sprintf("  %s%s  %s", st.Body.Render(c.Status), pad, st.Accent.Render(fmt.Sprint(c.Count)))
	}
	return out
}

// shortLabel abbreviates a status to fit under a bar.
func shortLabel(status string) string {
	token := issue.StatusToken(status)
	if r := []rune(token); len(r) > 4 {
		return string(r[:4])
	}
	return token
}
