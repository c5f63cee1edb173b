package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

type approvalsLoadedMsg struct {
	apps []domain.Application
	err  error
}

type decisionDoneMsg struct {
	id       int64
	approved bool
	err      error
}

type approvalsModel struct {
	client    *client.Client
	apps      []domain.Application
	cursor    int
	detail    bool
	rejecting bool
	reason    string
	busy      bool
	err       string
	frame     int
}

func newApprovalsModel(c *client.Client) approvalsModel {
	return approvalsModel{client: c}
}

func (m approvalsModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		apps, err := c.PendingApprovals(context.Background(), client.ApplicationFilter{PageSize: pageSize})
		return approvalsLoadedMsg{apps: apps, err: err}
	}
}

func (m approvalsModel) editing() bool { return m.rejecting }

func (m approvalsModel) helpKeys() string {
	if m.rejecting {
		return helpBar("enter", "reject", "esc", "back")
	}
	return helpBar("j/k", "nav", "enter", "detail", "a", "approve", "x", "reject")
}

func (m approvalsModel) selected() (domain.Application, bool) {
	if m.cursor < len(m.apps) {
		return m.apps[m.cursor], true
	}
	return domain.Application{}, false
}

func (m approvalsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++

	case approvalsLoadedMsg:
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.apps = msg.apps
		if m.cursor >= len(m.apps) {
			m.cursor = 0
		}

	case decisionDoneMsg:
		m.busy = false
		if msg.err != nil {
			return m, showError(msg.err)
		}
		verb := "rejected"
		if msg.approved {
			verb = "approved"
		}
		return m, tea.Batch(showToast(fmt.Sprintf("application #%d %s", msg.id, verb)), m.Init())

	case tea.KeyMsg:
		if m.rejecting {
			return m.updateReason(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m approvalsModel) updateReason(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rejecting = false
		m.reason = ""
	case "enter":
		reason := strings.TrimSpace(m.reason)
		if reason == "" {
			return m, showToast("a reason is required to reject")
		}
		app, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.rejecting = false
		m.reason = ""
		m.busy = true
		return m, m.decide(app.ID, false, reason)
	default:
		m.reason = editKey(m.reason, msg)
	}
	return m, nil
}

func (m approvalsModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.apps)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		m.detail = !m.detail
	case "esc":
		m.detail = false
	case "a":
		if app, ok := m.selected(); ok {
			m.busy = true
			return m, m.decide(app.ID, true, "")
		}
	case "x":
		if _, ok := m.selected(); ok {
			m.rejecting = true
			m.reason = ""
		}
	}
	return m, nil
}

func (m approvalsModel) decide(id int64, approve bool, reason string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var err error
		if approve {
			err = c.ApproveApplication(context.Background(), id)
		} else {
			err = c.RejectApplication(context.Background(), id, reason)
		}
		return decisionDoneMsg{id: id, approved: approve, err: err}
	}
}

func (m approvalsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", titleStyle.Render("Pending approvals"), metaStyle.Render(fmt.Sprintf("%d waiting", len(m.apps))))

	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	}
	if m.apps == nil {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}
	if len(m.apps) == 0 {
		b.WriteString("  " + dimStyle.Render("nothing to review"))
		return b.String()
	}

	if m.detail {
		if app, ok := m.selected(); ok {
			b.WriteString(applicationDetail(app))
		}
	} else {
		b.WriteString(applicationRows(m.apps, m.cursor, true))
	}

	if m.rejecting {
		b.WriteString("\n " + renderInput("reason>", m.reason, "why is this rejected", true, m.frame))
	} else if m.busy {
		b.WriteString("\n  " + dimStyle.Render("saving..."))
	}
	return b.String()
}
