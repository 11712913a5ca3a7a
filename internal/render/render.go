// Package render turns issue content into styled terminal text: markdown
// descriptions through glamour and raw documents through chroma.
package render

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

// Renderer caches one glamour renderer per wrap width. It is used from the
// loop goroutine only.
type Renderer struct {
	markdownStyle string
	syntaxStyle   string
	byWidth       map[int]*glamour.TermRenderer
}

// New returns a renderer using the given glamour standard style (such as
// "dark" or "notty") and chroma style (such as "monokai").
func New(markdownStyle, syntaxStyle string) *Renderer {
	return &Renderer{
		markdownStyle: markdownStyle,
		syntaxStyle:   syntaxStyle,
		byWidth:       make(map[int]*glamour.TermRenderer),
	}
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	if tr, ok := r.byWidth[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.byWidth[width] = tr
	return tr, nil
}

// Markdown renders md wrapped at width. On failure the source text is
// returned together with the error.
func (r *Renderer) Markdown(md string, width int) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	tr, err := r.termRenderer(max(width, 20))
	if err != nil {
		return md, err
	}
	out, err := tr.Render(md)
	if err != nil {
		return md, err
	}
	return strings.Trim(out, "\n"), nil
}

// JSON pretty-prints v and highlights it.
func (r *Renderer) JSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := quick.Highlight(&sb, string(data), "json", "terminal256", r.syntaxStyle); err != nil {
		return string(data), err
	}
	return sb.String(), nil
}
