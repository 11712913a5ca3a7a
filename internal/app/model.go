package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/fathom/internal/keys"
	"github.com/marcus/fathom/internal/msg"
	"github.com/marcus/fathom/internal/screen"
	"github.com/marcus/fathom/internal/ui"
	"github.com/marcus/fathom/internal/view"
)

const (
	// DebugLines is the number of log lines kept for the debug pane.
	DebugLines = 20

	// slowRedraw is the frame time above which a redraw is logged.
	slowRedraw = 100 * time.Millisecond

	// Interrupt always stops the program, before binding dispatch.
	Interrupt keys.Key = "C-c"
)

// Model is the root bubbletea model. Each Update handles exactly one
// message of the loop: a key, a tick, or a result handed back by a
// background goroutine.
type Model struct {
	ctx *Context

	buf       *screen.Buffer
	discovery *ui.Discovery
	help      *ui.Help

	width, height int
	logLines      []string
}

// New creates the model and enters home, which becomes the root of the
// navigation history. Call it on the goroutine that runs the program.
func New(ctx *Context, home view.View) Model {
	m := Model{
		ctx:       ctx,
		buf:       screen.NewBuffer(0, 0),
		discovery: ui.NewDiscovery(ctx.Styles),
		help:      ui.NewHelp(ctx.Styles),
	}
	if home != nil {
		ctx.Nav.Navigate(home)
	}
	return m
}

// Context returns the runtime context.
func (m Model) Context() *Context { return m.ctx }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.ctx.drain()
}

// Update implements tea.Model.
func (m Model) Update(tm tea.Msg) (tea.Model, tea.Cmd) {
	ctx := m.ctx

	switch tm := tm.(type) {
	case tea.WindowSizeMsg:
		m.width = tm.Width
		m.height = tm.Height
		ctx.fullRedraw()

	case msg.KeyMsg:
		m.handleKey(tm.Key)

	case msg.TickMsg:
		ctx.Nav.Tick()

	case msg.DecodeErrorMsg:
		ctx.Logger.Warn("app: undecodable input",
			"sequence", fmt.Sprintf("%q", tm.Err.Sequence), "reason", tm.Err.Reason)
		ctx.SetStatus(Status{Text: "Unknown key sequence " + fmt.Sprintf("%q", tm.Err.Sequence), Level: ui.LevelWarn})

	case msg.InputClosedMsg:
		ctx.Logger.Info("app: input closed", "error", tm.Err)
		ctx.Quit()

	case msg.DocumentsLoadedMsg:
		if tm.Manual {
			ctx.reloading = false
		}
		m.acceptDocuments(tm)

	case msg.DocumentsFailedMsg:
		ctx.reloading = false
		ctx.Logger.Error("app: loading documents failed", "error", tm.Err)
		ctx.SetStatus(Status{Text: "Reload failed: " + tm.Err.Error(), Level: ui.LevelError, Persistent: true})

	case msg.LogRecordMsg:
		m.logLines = append(m.logLines, FormatRecord(tm))
		if over := len(m.logLines) - DebugLines; over > 0 {
			m.logLines = append([]string(nil), m.logLines[over:]...)
		}

	case msg.StatusMsg:
		level := ui.LevelInfo
		if tm.IsError {
			level = ui.LevelError
		}
		ctx.SetStatus(Status{Text: tm.Text, Persistent: tm.Persistent, Level: level})
	}

	if ctx.quitting {
		return m, tea.Quit
	}
	return m, ctx.drain()
}

func (m *Model) handleKey(key keys.Key) {
	ctx := m.ctx
	if key == Interrupt {
		ctx.Logger.Debug("app: interrupt")
		ctx.Quit()
		return
	}
	if ctx.showHelp {
		ctx.showHelp = false
		return
	}
	if !ctx.Bindings.Call(key) {
		ctx.Nav.Keypress(key)
	}
}

func (m *Model) acceptDocuments(dm msg.DocumentsLoadedMsg) {
	ctx := m.ctx
	if !ctx.acceptSnapshot(dm.Snapshot) {
		if dm.Manual {
			ctx.Info("Documents unchanged")
		}
		return
	}
	ctx.Logger.Info("app: documents loaded",
		"count", dm.Snapshot.Len(), "origin", dm.Snapshot.Origin, "generation", ctx.generation)
	ctx.Info(fmt.Sprintf("Loaded %d documents", dm.Snapshot.Len()))
}

// layout splits the height between view, debug pane, discovery bar and
// status line. The view gets whatever is left.
func (m Model) layout() (viewH, debugH, discoveryH int) {
	h := m.height - 1
	discoveryH = min(m.ctx.Config.UI.DiscoveryLines+1, max(h/2, 0))
	if m.ctx.Config.Debug {
		debugH = min(DebugLines+1, max(h/3, 0))
	}
	viewH = max(h-discoveryH-debugH, 0)
	return viewH, debugH, discoveryH
}

// View implements tea.Model.
func (m Model) View() string {
	ctx := m.ctx
	if ctx.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}
	start := time.Now()

	scope := ctx.Bindings.Current()
	if cb := scope.RenderCallback(); cb != nil {
		cb()
	}

	viewH, debugH, discoveryH := m.layout()
	if w, h := m.buf.Size(); w != m.width || h != viewH {
		m.buf.Resize(m.width, viewH)
	}
	ctx.Nav.Redraw(m.buf)

	parts := make([]string, 0, 4)
	if viewH > 0 {
		parts = append(parts, m.buf.String())
	}
	if debugH > 0 {
		parts = append(parts, ui.DebugPane(ctx.Styles, m.logLines, m.width, debugH))
	}
	if discoveryH > 0 {
		parts = append(parts, m.discovery.Render(scope, m.width, discoveryH))
	}
	parts = append(parts, ui.StatusLine(ctx.Styles, ctx.status.Text, ctx.status.Level, m.width))
	out := strings.Join(parts, "\n")

	if ctx.showHelp {
		out = m.help.Render(out, scope, m.width, m.height)
	}

	if d := time.Since(start); d > slowRedraw {
		name := ""
		if v := ctx.Nav.Current(); v != nil {
			name = v.Name()
		}
		ctx.Logger.Warn("app: slow redraw", "view", name, "duration", d)
	}
	return out
}
