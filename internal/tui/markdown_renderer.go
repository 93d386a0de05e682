package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const minContentWrap = 20

// contentRenderer renders task content markdown for the info overlay and
// recreates the glamour renderer when the wrap width changes.
type contentRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts task content into ANSI-styled terminal text wrapped to the
// requested width. Falls back to the raw text when rendering fails.
func (r *contentRenderer) render(content string, width int) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	wrapWidth := width
	if wrapWidth < minContentWrap {
		wrapWidth = minContentWrap
	}

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return content
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
