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

// statusFilters is the cycle order for the status filter. "" is all.
var statusFilters = []string{"", domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled}

type myAppsLoadedMsg struct {
	status string
	apps   []domain.Application
	err    error
}

type applicationCancelledMsg struct {
	id  int64
	err error
}

type myAppsModel struct {
	client     *client.Client
	exportDir  string
	apps       []domain.Application
	cursor     int
	filter     int
	detail     bool
	confirming bool
	err        string
}

func newMyAppsModel(c *client.Client, exportDir string) myAppsModel {
	return myAppsModel{client: c, exportDir: exportDir}
}

func (m myAppsModel) Init() tea.Cmd {
	c := m.client
	status := statusFilters[m.filter]
	return func() tea.Msg {
		apps, err := c.MyApplications(context.Background(), client.ApplicationFilter{Status: status, PageSize: pageSize})
		return myAppsLoadedMsg{status: status, apps: apps, err: err}
	}
}

func (m myAppsModel) editing() bool { return m.confirming }

func (m myAppsModel) helpKeys() string {
	if m.confirming {
		return helpBar("y", "confirm cancel", "n", "keep")
	}
	return helpBar("j/k", "nav", "enter", "detail", "f", "filter", "c", "copy", "x", "cancel", "e", "export")
}

func (m myAppsModel) selected() (domain.Application, bool) {
	if m.cursor < len(m.apps) {
		return m.apps[m.cursor], true
	}
	return domain.Application{}, false
}

func (m myAppsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case myAppsLoadedMsg:
		if msg.status != statusFilters[m.filter] {
			return m, nil
		}
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.apps = msg.apps
		if m.cursor >= len(m.apps) {
			m.cursor = 0
		}

	case applicationCancelledMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		return m, tea.Batch(showToast(fmt.Sprintf("application #%d cancelled", msg.id)), m.Init())

	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() == "y" {
				if app, ok := m.selected(); ok {
					return m, m.cancel(app.ID)
				}
			}
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m myAppsModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
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
	case "f":
		m.filter = (m.filter + 1) % len(statusFilters)
		m.cursor = 0
		return m, m.Init()
	case "c":
		if app, ok := m.selected(); ok {
			return m, copyCmd(applicationSummary(app))
		}
	case "x":
		if app, ok := m.selected(); ok {
			if !app.Pending() {
				return m, showToast("only pending applications can be cancelled")
			}
			m.confirming = true
		}
	case "e":
		if len(m.apps) == 0 {
			return m, showToast("nothing to export")
		}
		return m, exportCmd(m.exportDir, "my-applications", m.apps, export.ApplicationColumns)
	}
	return m, nil
}

func (m myAppsModel) cancel(id int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.CancelApplication(context.Background(), id)
		return applicationCancelledMsg{id: id, err: err}
	}
}

func (m myAppsModel) filterLabel() string {
	if f := statusFilters[m.filter]; f != "" {
		return f
	}
	return "all"
}

func (m myAppsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", titleStyle.Render("My applications"), metaStyle.Render("filter: "+m.filterLabel()))

	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	}
	if m.apps == nil {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}
	if len(m.apps) == 0 {
		b.WriteString("  " + dimStyle.Render("no applications"))
		return b.String()
	}

	if m.detail {
		if app, ok := m.selected(); ok {
			b.WriteString(applicationDetail(app))
			return b.String()
		}
	}

	b.WriteString(applicationRows(m.apps, m.cursor, false))
	if m.confirming {
		if app, ok := m.selected(); ok {
			fmt.Fprintf(&b, "\n  %s", warnStyle.Render(fmt.Sprintf("cancel #%d %s? (y/n)", app.ID, app.ActivityName)))
		}
	}
	return b.String()
}

// applicationRows renders the shared application table. withApplicant adds
// the applicant column for reviewers.
func applicationRows(apps []domain.Application, cursor int, withApplicant bool) string {
	var b strings.Builder
	for i, a := range apps {
		prefix := "  "
		style := normalStyle
		if i == cursor {
			prefix = accentStyle.Render("> ")
			style = selectedStyle
		}
		venue := a.VenueName
		if venue == "" {
			venue = fmt.Sprintf("venue %d", a.VenueID)
		}
		line := fmt.Sprintf("%s%s %s  %s  %s", prefix,
			metaStyle.Render(fmt.Sprintf("#%-4d", a.ID)),
			style.Render(truncStr(a.ActivityName, 28)),
			dimStyle.Render(truncStr(venue, 24)),
			dimStyle.Render(formatRange(a.StartTime, a.EndTime)))
		if withApplicant {
			line += "  " + metaStyle.Render(a.ApplicantUsername)
		}
		line += "  " + StatusStyle(a.Status).Render(a.Status)
		b.WriteString(line + "\n")
	}
	return b.String()
}

func applicationDetail(a domain.Application) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n\n", metaStyle.Render(fmt.Sprintf("#%d", a.ID)), selectedStyle.Render(a.ActivityName))
	venue := a.VenueName
	if venue == "" {
		venue = fmt.Sprintf("venue %d", a.VenueID)
	}
	fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("venue    "), normalStyle.Render(venue))
	fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("when     "), normalStyle.Render(formatRange(a.StartTime, a.EndTime)))
	fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("applicant"), normalStyle.Render(a.ApplicantUsername))
	fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("status   "), StatusStyle(a.Status).Render(a.Status))
	if a.RejectReason != "" {
		fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render("reason   "), errorStyle.Render(a.RejectReason))
	}
	if len(a.RequestedMaterials) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("MATERIALS") + "\n")
		for _, rm := range a.RequestedMaterials {
			name := rm.Name
			if name == "" {
				name = fmt.Sprintf("material %d", rm.MaterialID)
			}
			fmt.Fprintf(&b, "  %s %s\n", normalStyle.Render(name), dimStyle.Render(fmt.Sprintf("x%d", rm.Quantity)))
		}
	}
	return b.String()
}
