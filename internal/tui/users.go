package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/export"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// roleFilters is the cycle order for the role filter. "" is all.
var roleFilters = append([]domain.Role{""}, domain.Roles...)

type usersLoadedMsg struct {
	role  domain.Role
	users []domain.User
	err   error
}

type usersModel struct {
	client    *client.Client
	exportDir string
	users     []domain.User
	filter    int
	cursor    int
	err       string
}

func newUsersModel(c *client.Client, exportDir string) usersModel {
	return usersModel{client: c, exportDir: exportDir}
}

func (m usersModel) Init() tea.Cmd {
	c := m.client
	role := roleFilters[m.filter]
	return func() tea.Msg {
		users, err := c.ListUsers(context.Background(), role)
		return usersLoadedMsg{role: role, users: users, err: err}
	}
}

func (m usersModel) editing() bool { return false }

func (m usersModel) helpKeys() string {
	return helpBar("j/k", "nav", "f", "role", "e", "export")
}

func (m usersModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		if msg.role != roleFilters[m.filter] {
			return m, nil
		}
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.users = msg.users
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "f":
			m.filter = (m.filter + 1) % len(roleFilters)
			m.cursor = 0
			return m, m.Init()
		case "e":
			if len(m.users) == 0 {
				return m, showToast("nothing to export")
			}
			return m, exportCmd(m.exportDir, "users", m.users, export.UserColumns)
		}
	}
	return m, nil
}

func (m usersModel) View() string {
	var b strings.Builder
	filter := "all"
	if r := roleFilters[m.filter]; r != "" {
		filter = r.Label()
	}
	fmt.Fprintf(&b, "\n  %s  %s\n\n", titleStyle.Render("Users"), metaStyle.Render("role: "+filter))

	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	}
	if m.users == nil {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}
	if len(m.users) == 0 {
		b.WriteString("  " + dimStyle.Render("no users"))
		return b.String()
	}

	for i, u := range m.users {
		prefix := "  "
		style := normalStyle
		if i == m.cursor {
			prefix = accentStyle.Render("> ")
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s  %s\n", prefix,
			metaStyle.Render(fmt.Sprintf("#%-3d", u.ID)),
			style.Render(fmt.Sprintf("%-16s", truncStr(u.Username, 16))),
			RoleStyle(u.Role).Render(fmt.Sprintf("%-13s", u.Role.Label())),
			dimStyle.Render(truncStr(u.Department, 28)),
			metaStyle.Render(u.Phone))
	}
	return b.String()
}
