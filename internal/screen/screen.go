// Package screen defines the drawing surface handed to views.
package screen

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Surface is a fixed-size grid of text rows. Rows may carry ANSI styling;
// anything wider than the surface is truncated on Put.
type Surface interface {
	Size() (width, height int)
	Clear()
	Put(row int, line string)
}

// Buffer is an in-memory Surface. The loop renders views into a Buffer and
// then composes it with the rest of the frame.
type Buffer struct {
	width, height int
	rows          []string
}

// NewBuffer returns a blank buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Size implements Surface.
func (b *Buffer) Size() (int, int) { return b.width, b.height }

// Resize changes the buffer dimensions and clears it.
func (b *Buffer) Resize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
	b.rows = make([]string, b.height)
}

// Clear implements Surface.
func (b *Buffer) Clear() {
	for i := range b.rows {
		b.rows[i] = ""
	}
}

// Put implements Surface. Rows outside the buffer are ignored.
func (b *Buffer) Put(row int, line string) {
	if row < 0 || row >= b.height {
		return
	}
	if ansi.StringWidth(line) > b.width {
		line = ansi.Truncate(line, b.width, "")
	}
	b.rows[row] = line
}

// PutLines writes lines starting at row, one per row.
func PutLines(s Surface, row int, lines []string) {
	for i, line := range lines {
		s.Put(row+i, line)
	}
}

// Lines returns a copy of the rows.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.rows...)
}

// String joins the rows with newlines.
func (b *Buffer) String() string {
	return strings.Join(b.rows, "\n")
}
