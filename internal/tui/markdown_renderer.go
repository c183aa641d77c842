package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/todos/internal/domain"
)

// markdownRenderer renders markdown for terminal views and recreates the renderer when wrap width or theme changes.
type markdownRenderer struct {
	width    int
	theme    domain.ThemeName
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text for the active theme.
func (r *markdownRenderer) render(markdown string, width int, theme domain.ThemeName) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := width
	if wrapWidth < 24 {
		wrapWidth = 24
	}
	if theme != domain.ThemeDark {
		theme = domain.ThemeLight
	}

	if r.renderer == nil || r.width != wrapWidth || r.theme != theme {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(string(theme)),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
		r.theme = theme
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}
