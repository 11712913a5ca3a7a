// Package styles builds the lipgloss styles of one theme. The resulting
// Styles value is created once at startup and handed to every component
// that renders.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles is the full set of styles derived from a Theme.
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style

	// Discovery bar
	DiscoveryKey      lipgloss.Style
	DiscoveryDesc     lipgloss.Style
	DiscoveryDisabled lipgloss.Style
	DiscoveryHint     lipgloss.Style
	DiscoveryRule     lipgloss.Style

	// Status line
	StatusInfo  lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style

	// Result lists
	IssueKey         lipgloss.Style
	IssueKeySelected lipgloss.Style
	Summary          lipgloss.Style
	SummarySelected  lipgloss.Style
	Prompt           lipgloss.Style

	DebugPane lipgloss.Style
	ModalBox  lipgloss.Style
	Dim       lipgloss.Style
}

func color(hex string) lipgloss.TerminalColor {
	if hex == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// New builds the styles of t.
func New(t Theme) *Styles {
	if t.Monochrome {
		return newMono(t)
	}
	c := t.Colors
	fg := func(hex string) lipgloss.Style { return lipgloss.NewStyle().Foreground(color(hex)) }
	selectedFg := color(ReadableOn(c.BgSelection))

	return &Styles{
		Theme: t,

		Title:    fg(c.TextPrimary).Bold(true),
		Subtitle: fg(c.Primary).Bold(true),
		Body:     fg(c.TextPrimary),
		Muted:    fg(c.TextMuted),
		Accent:   fg(c.Accent),

		DiscoveryKey:      fg(c.Accent).Background(color(c.BgKey)).Bold(true),
		DiscoveryDesc:     fg(c.TextPrimary),
		DiscoveryDisabled: fg(c.TextSubtle),
		DiscoveryHint:     fg(c.TextMuted).Italic(true),
		DiscoveryRule:     fg(c.TextSubtle),

		StatusInfo:  fg(c.TextPrimary).Background(color(c.BgStatus)),
		StatusWarn:  fg(c.Warning).Background(color(c.BgStatus)).Bold(true),
		StatusError: fg(c.Error).Background(color(c.BgStatus)).Bold(true),

		IssueKey:         fg(c.Accent),
		IssueKeySelected: lipgloss.NewStyle().Foreground(selectedFg).Background(color(c.BgSelection)).Bold(true),
		Summary:          fg(c.TextPrimary),
		SummarySelected:  lipgloss.NewStyle().Foreground(selectedFg).Background(color(c.BgSelection)),
		Prompt:           fg(c.Primary).Bold(true),

		DebugPane: fg(c.TextMuted),
		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(c.Primary)).
			Padding(0, 1),
		Dim: fg("#6C6C6C"),
	}
}

func newMono(t Theme) *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Theme: t,

		Title:    plain.Bold(true),
		Subtitle: plain.Bold(true).Underline(true),
		Body:     plain,
		Muted:    plain.Faint(true),
		Accent:   plain.Bold(true),

		DiscoveryKey:      plain.Reverse(true),
		DiscoveryDesc:     plain,
		DiscoveryDisabled: plain.Faint(true),
		DiscoveryHint:     plain.Italic(true),
		DiscoveryRule:     plain.Faint(true),

		StatusInfo:  plain.Reverse(true),
		StatusWarn:  plain.Reverse(true).Bold(true),
		StatusError: plain.Reverse(true).Bold(true),

		IssueKey:         plain.Bold(true),
		IssueKeySelected: plain.Reverse(true).Bold(true),
		Summary:          plain,
		SummarySelected:  plain.Reverse(true),
		Prompt:           plain.Bold(true),

		DebugPane: plain.Faint(true),
		ModalBox:  plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
		Dim:       plain.Faint(true),
	}
}

// ForName returns the styles of the named built-in theme, falling back to
// the default theme.
func ForName(name string) *Styles {
	t, ok := Lookup(name)
	if !ok {
		t = DefaultTheme
	}
	return New(t)
}
