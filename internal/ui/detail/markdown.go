package detail

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/theme"
)

// Renderers are cached by style and width.
var rendererCache sync.Map // map[string]*glamour.TermRenderer

func getRenderer(style string, width int) (*glamour.TermRenderer, error) {
	cacheKey := fmt.Sprintf("%s/%d", style, width)
	if cached, ok := rendererCache.Load(cacheKey); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(cacheKey, renderer)
	return renderer, nil
}

// RenderDescription renders a markdown description, falling back to the
// raw text when rendering fails.
func RenderDescription(description, style string, width int) string {
	if strings.TrimSpace(description) == "" {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}

	renderer, err := getRenderer(style, max(width, 20))
	if err != nil {
		return description
	}
	out, err := renderer.Render(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(out)
}
