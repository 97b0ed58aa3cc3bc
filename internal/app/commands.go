package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/ui/forms"
)

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(input string) tea.Cmd {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "quit", "q":
		return tea.Quit

	case "export":
		path := arg
		if path == "" {
			path = m.exportPath
		}
		// Failures are reported through the session's notices.
		_, _ = m.session.ExportFile(path)
		m.pullNotices()
		return nil

	case "import":
		if arg == "" {
			m.showNotice(model.Notice{Level: model.NoticeWarning, Message: "usage: import <path>"})
			return nil
		}
		_ = m.session.ImportFile(m.ctx, arg)
		m.refresh()
		m.pullNotices()
		return nil

	case "new", "project":
		return m.startCreate(forms.Target{Kind: forms.KindProject})

	case "settings", "config":
		return m.openSettings()

	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil

	default:
		m.showNotice(model.Notice{
			Level:   model.NoticeWarning,
			Message: fmt.Sprintf("unknown command %q (try export, import, new, settings, help, quit)", name),
		})
		return nil
	}
}
