package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/router"
	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

const (
	loginUsername = iota
	loginPassword
)

type loginDoneMsg struct {
	profile domain.UserProfile
	err     error
}

type loginModel struct {
	store  *session.Store
	form   form
	busy   bool
	status string
	frame  int
}

func newLoginModel(store *session.Store) loginModel {
	return loginModel{
		store: store,
		form: newForm(
			formField{label: "username", placeholder: "admin, reviewer, teacher or any name"},
			formField{label: "password", masked: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) editing() bool { return true }

func (m loginModel) helpKeys() string {
	return helpBar("tab", "next", "enter", "sign in", "ctrl+c", "quit")
}

func (m loginModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = client.UserMessage(msg.err)
			return m, nil
		}
		m.status = ""
		m.form.reset()
		return m, navigateTo(router.PathRoot)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		var submit bool
		m.form, submit = m.form.update(msg)
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) submit() (screen, tea.Cmd) {
	creds := domain.Credentials{
		Username: m.form.value(loginUsername),
		Password: m.form.fields[loginPassword].value,
	}
	if creds.Username == "" {
		m.status = "username is required"
		m.form.focus = loginUsername
		return m, nil
	}

	m.busy = true
	m.status = ""
	store := m.store
	return m, func() tea.Msg {
		p, err := store.Login(context.Background(), creds)
		return loginDoneMsg{profile: p, err: err}
	}
}

func (m loginModel) View() string {
	s := "\n  " + titleStyle.Render("Sign in") + "\n\n"
	s += m.form.View(m.frame)
	s += "\n"
	switch {
	case m.busy:
		s += "  " + dimStyle.Render("signing in...")
	case m.status != "":
		s += "  " + errorStyle.Render(m.status)
	}
	return s
}
