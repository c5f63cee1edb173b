package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/internal/session"
)

// loggedOutMsg is returned after the logout command finishes. The session
// store fires its own hook, which reaches the app as a SessionEndedMsg.
type loggedOutMsg struct{}

type profileModel struct {
	store      *session.Store
	version    string
	confirming bool
}

func newProfileModel(store *session.Store, version string) profileModel {
	return profileModel{store: store, version: version}
}

func (m profileModel) Init() tea.Cmd { return nil }

func (m profileModel) editing() bool { return m.confirming }

func (m profileModel) helpKeys() string {
	if m.confirming {
		return helpBar("y", "sign out", "n", "stay")
	}
	return helpBar("L", "sign out")
}

func (m profileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedOutMsg:
		m.confirming = false
	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() == "y" {
				store := m.store
				return m, func() tea.Msg {
					store.Logout(context.Background())
					return loggedOutMsg{}
				}
			}
			return m, nil
		}
		if msg.String() == "L" {
			m.confirming = true
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Profile") + "\n\n")
	if m.store == nil {
		b.WriteString("  " + dimStyle.Render("not signed in"))
		return b.String()
	}

	snap := m.store.Snapshot()
	if snap.Profile == nil {
		b.WriteString("  " + dimStyle.Render("not signed in"))
		return b.String()
	}
	fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("username"), selectedStyle.Render(snap.Profile.Username))
	fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("role    "), RoleStyle(snap.Profile.Role).Render(snap.Profile.Role.Label()))
	if exp, ok := session.TokenExpiry(snap.Token); ok {
		fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("expires "), normalStyle.Render(datetime.FormatDisplay(datetime.FormatCanonical(exp))))
	} else {
		fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("expires "), dimStyle.Render("unknown"))
	}
	if m.version != "" {
		fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("client  "), dimStyle.Render(m.version))
	}
	if m.confirming {
		b.WriteString("\n  " + warnStyle.Render("sign out? (y/n)"))
	}
	return b.String()
}
