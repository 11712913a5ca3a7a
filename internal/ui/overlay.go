// Package ui renders the parts of the frame that surround the current
// view: the discovery bar, the status line, the debug pane and the help
// overlay.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, ansi.StringWidth(line))
	}
	return maxWidth
}

// compositeRow places box onto bg at column x. The background around the
// box is stripped of its own styling and rendered with dim, because faint
// does not combine reliably with existing color codes.
func compositeRow(bg, box string, x, boxWidth, totalWidth int, dim lipgloss.Style) string {
	var sb strings.Builder
	plain := ansi.Strip(bg)
	plainWidth := ansi.StringWidth(plain)

	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		sb.WriteString(dim.Render(left))
		if w := ansi.StringWidth(left); w < x {
			sb.WriteString(strings.Repeat(" ", x-w))
		}
	}
	sb.WriteString(box)

	if right := x + boxWidth; right < totalWidth && plainWidth > right {
		sb.WriteString(dim.Render(ansi.Cut(plain, right, plainWidth)))
	}
	return sb.String()
}

// Overlay centers box over background, dimming every background cell that
// stays visible. The result has exactly height lines.
func Overlay(background, box string, width, height int, dim lipgloss.Style) string {
	bgLines := strings.Split(background, "\n")
	boxLines := strings.Split(box, "\n")

	boxWidth := maxLineWidth(boxLines)
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(boxLines))/2, 0)

	out := make([]string, height)
	for row := range out {
		bg := ""
		if row < len(bgLines) {
			bg = bgLines[row]
		}
		if i := row - y; i >= 0 && i < len(boxLines) {
			out[row] = compositeRow(bg, boxLines[i], x, boxWidth, width, dim)
		} else {
			out[row] = dim.Render(ansi.Strip(bg))
		}
	}
	return strings.Join(out, "\n")
}
