package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/theme"
)

// Layout splits the terminal into a header, an optional standing banner,
// the content area and a status bar.
type Layout struct {
	Width  int
	Height int
	// Banner is a notice that stays on screen all session, such as
	// storage being unavailable. Empty means no banner row.
	Banner string
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// WithBanner returns l with a standing banner row.
func (l Layout) WithBanner(text string) Layout {
	l.Banner = text
	return l
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for content after the header, the
// banner (if any) and the status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - 2
	if l.Banner != "" {
		h--
	}
	return max(h, 0)
}

// Summary formats the collection counts shown in the header.
func Summary(c model.Collection) string {
	done := 0
	for _, p := range c {
		for _, l := range p.TodoLists {
			for _, t := range l.Todos {
				if t.Completed {
					done++
				}
			}
		}
	}
	return fmt.Sprintf("%d projects · %d/%d done", len(c), done, c.TodoCount())
}

// RenderHeader renders the title on the left and the summary and storage
// status on the right.
func (l Layout) RenderHeader(title, summary, storageStatus string, persistent bool) string {
	left := theme.HeaderStyle.Render(title)

	statusStyle := theme.HeaderStyle
	if !persistent {
		statusStyle = statusStyle.Foreground(theme.ColorYellow)
	}
	right := theme.HeaderStyle.Render(summary+"  ") + statusStyle.Render(storageStatus)

	gap := max(l.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.renderBar(theme.StatusBarStyle, hints)
}

// RenderNotice renders a notice in place of the status bar, colored by level.
func (l Layout) RenderNotice(n model.Notice) string {
	text := n.Message
	if n.Level == model.NoticeBlocking {
		text += "  (esc to dismiss)"
	}
	return l.renderBar(noticeStyle(n.Level), text)
}

func noticeStyle(level model.NoticeLevel) lipgloss.Style {
	switch level {
	case model.NoticeWarning:
		return theme.WarningBarStyle
	case model.NoticeBlocking:
		return theme.ErrorBarStyle
	default:
		return theme.StatusBarStyle
	}
}

// renderBar draws text on a full-width bar, cutting it at the screen edge.
func (l Layout) renderBar(style lipgloss.Style, text string) string {
	rendered := style.MaxWidth(max(l.Width, 1)).Render(text)

	gap := max(l.Width-lipgloss.Width(rendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame stacks the header, banner, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	rows := []string{header}
	if l.Banner != "" {
		rows = append(rows, l.renderBar(theme.WarningBarStyle, l.Banner))
	}
	rows = append(rows, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
