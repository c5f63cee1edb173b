package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

const trendDays = 7

type dashboardLoadedMsg struct {
	stats  *domain.DashboardStats
	trends []domain.TrendPoint
	err    error
}

type dashboardModel struct {
	client *client.Client
	stats  *domain.DashboardStats
	trends []domain.TrendPoint
	err    string
	width  int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c}
}

func (m dashboardModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.DashboardStats(context.Background())
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		trends, err := c.DashboardTrends(context.Background(), trendDays)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		return dashboardLoadedMsg{stats: stats, trends: trends}
	}
}

func (m dashboardModel) editing() bool    { return false }
func (m dashboardModel) helpKeys() string { return "" }

func (m dashboardModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case dashboardLoadedMsg:
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		m.trends = msg.trends
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.err != "" {
		return "\n  " + errorStyle.Render(m.err)
	}
	if m.stats == nil {
		return "\n  " + dimStyle.Render("loading...")
	}

	var b strings.Builder
	b.WriteString("\n  " + sectionHeaderStyle.Render("APPLICATIONS") + "\n")
	fmt.Fprintf(&b, "  %s total   %s pending   %s approved   %s rejected\n",
		selectedStyle.Render(fmt.Sprint(m.stats.TotalApplications)),
		StatusStyle(domain.StatusPending).Render(fmt.Sprint(m.stats.PendingApplications)),
		StatusStyle(domain.StatusApproved).Render(fmt.Sprint(m.stats.ApprovedApplications)),
		StatusStyle(domain.StatusRejected).Render(fmt.Sprint(m.stats.RejectedApplications)),
	)
	b.WriteString("\n  " + sectionHeaderStyle.Render("CATALOGUE") + "\n")
	fmt.Fprintf(&b, "  %s venues   %s materials   %s users\n",
		normalStyle.Render(fmt.Sprint(m.stats.TotalVenues)),
		normalStyle.Render(fmt.Sprint(m.stats.TotalMaterials)),
		normalStyle.Render(fmt.Sprint(m.stats.TotalUsers)),
	)

	if len(m.trends) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render(fmt.Sprintf("LAST %d DAYS", len(m.trends))) + "\n")
		peak := 0
		for _, p := range m.trends {
			if p.Count > peak {
				peak = p.Count
			}
		}
		barWidth := m.width - 24
		if barWidth > 40 {
			barWidth = 40
		}
		if barWidth < 10 {
			barWidth = 10
		}
		for _, p := range m.trends {
			fmt.Fprintf(&b, "  %s  %s %s\n", metaStyle.Render(p.Date), bar(p.Count, peak, barWidth), dimStyle.Render(fmt.Sprint(p.Count)))
		}
	}
	return b.String()
}
