package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/router"
)

// statusModel renders the 403 and 404 pages.
type statusModel struct {
	path string
}

func newStatusModel(path string) statusModel {
	return statusModel{path: path}
}

func (m statusModel) Init() tea.Cmd { return nil }
func (m statusModel) editing() bool { return false }

func (m statusModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, navigateTo(router.PathRoot)
	}
	return m, nil
}

func (m statusModel) helpKeys() string {
	return helpBar("esc", "home")
}

func (m statusModel) View() string {
	var code, text string
	switch m.path {
	case router.PathForbidden:
		code, text = "403", "You do not have access to this page."
	default:
		code, text = "404", "This page does not exist."
	}
	return "\n  " + errorStyle.Bold(true).Render(code) + "\n\n  " + normalStyle.Render(text) + "\n\n  " +
		metaStyle.Render("press esc to go home")
}
