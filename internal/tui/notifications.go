package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

type notificationsLoadedMsg struct {
	unreadOnly bool
	items      []domain.Notification
	err        error
}

type notificationsReadMsg struct {
	id  int64 // 0 when every notification was marked
	err error
}

type notificationsModel struct {
	client     *client.Client
	items      []domain.Notification
	unreadOnly bool
	cursor     int
	err        string
	now        func() time.Time
}

func newNotificationsModel(c *client.Client) notificationsModel {
	return notificationsModel{client: c, now: time.Now}
}

func (m notificationsModel) Init() tea.Cmd {
	c := m.client
	unread := m.unreadOnly
	return func() tea.Msg {
		items, err := c.ListNotifications(context.Background(), unread)
		return notificationsLoadedMsg{unreadOnly: unread, items: items, err: err}
	}
}

func (m notificationsModel) editing() bool { return false }

func (m notificationsModel) helpKeys() string {
	return helpBar("j/k", "nav", "enter", "mark read", "m", "mark all", "u", "unread only")
}

func (m notificationsModel) unread() int {
	n := 0
	for _, it := range m.items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

func (m notificationsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		if msg.unreadOnly != m.unreadOnly {
			return m, nil
		}
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}

	case notificationsReadMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		for i := range m.items {
			if msg.id == 0 || m.items[i].ID == msg.id {
				m.items[i].IsRead = true
			}
		}
		if m.unreadOnly {
			return m, m.Init()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.items) && !m.items[m.cursor].IsRead {
				return m, m.markRead(m.items[m.cursor].ID)
			}
		case "m":
			if m.unread() > 0 {
				return m, m.markRead(0)
			}
		case "u":
			m.unreadOnly = !m.unreadOnly
			m.cursor = 0
			return m, m.Init()
		}
	}
	return m, nil
}

func (m notificationsModel) markRead(id int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var err error
		if id == 0 {
			err = c.MarkAllNotificationsRead(context.Background())
		} else {
			err = c.MarkNotificationRead(context.Background(), id)
		}
		return notificationsReadMsg{id: id, err: err}
	}
}

func (m notificationsModel) View() string {
	var b strings.Builder
	scope := "all"
	if m.unreadOnly {
		scope = "unread"
	}
	fmt.Fprintf(&b, "\n  %s  %s  %s\n\n", titleStyle.Render("Notifications"),
		metaStyle.Render(scope), accentStyle.Render(fmt.Sprintf("%d unread", m.unread())))

	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	}
	if m.items == nil {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}
	if len(m.items) == 0 {
		b.WriteString("  " + dimStyle.Render("all caught up"))
		return b.String()
	}

	now := m.now()
	for i, it := range m.items {
		prefix := "  "
		if i == m.cursor {
			prefix = accentStyle.Render("> ")
		}
		dot := metaStyle.Render("  ")
		style := dimStyle
		if !it.IsRead {
			dot = accentStyle.Render("● ")
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s%s  %s\n", prefix, dot, style.Render(it.Title), metaStyle.Render(formatAgo(it.CreatedAt, now)))
		fmt.Fprintf(&b, "      %s\n", normalStyle.Render(truncStr(it.Content, 72)))
	}
	return b.String()
}
