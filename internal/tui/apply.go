package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/internal/router"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

const (
	applyActivity = iota
	applyVenue
	applyStart
	applyEnd
	applyMaterials
)

type applyVenuesMsg struct {
	venues []domain.Venue
	err    error
}

type applicationCreatedMsg struct {
	app *domain.Application
	err error
}

type applyModel struct {
	client    *client.Client
	venues    []domain.Venue
	form      form
	submitted bool
	status    string
	frame     int
}

func newApplyModel(c *client.Client) applyModel {
	return applyModel{
		client: c,
		form: newForm(
			formField{label: "activity", placeholder: "what is the event"},
			formField{label: "venue", options: []string{}},
			formField{label: "start", placeholder: "2025-11-01 09:00"},
			formField{label: "end", placeholder: "2025-11-01 11:00"},
			formField{label: "materials", placeholder: "id:qty, id:qty (optional)"},
		),
	}
}

func (m applyModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		venues, err := c.ListVenues(context.Background(), domain.VenueOpen)
		return applyVenuesMsg{venues: venues, err: err}
	}
}

func (m applyModel) editing() bool { return true }

func (m applyModel) helpKeys() string {
	return helpBar("tab", "next", "h/l", "venue", "ctrl+s", "submit", "esc", "home")
}

func (m applyModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++
		return m, nil

	case applyVenuesMsg:
		if msg.err != nil {
			m.status = client.UserMessage(msg.err)
			return m, nil
		}
		m.venues = msg.venues
		names := make([]string, len(msg.venues))
		for i, v := range msg.venues {
			names[i] = fmt.Sprintf("%s (%d seats)", v.Name, v.Capacity)
		}
		m.form.setOptions(applyVenue, names)
		return m, nil

	case applicationCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.status = client.UserMessage(msg.err)
			return m, nil
		}
		m.status = ""
		m.form.reset()
		return m, tea.Batch(
			showToast(fmt.Sprintf("application #%d submitted", msg.app.ID)),
			navigateTo(router.PathMyApplications),
		)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, navigateTo(router.PathRoot)
		}
		if m.submitted {
			return m, nil
		}
		m.status = ""
		var submit bool
		m.form, submit = m.form.update(msg)
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

// input validates the form and builds the create payload.
func (m applyModel) input() (domain.ApplicationInput, error) {
	var in domain.ApplicationInput
	in.ActivityName = m.form.value(applyActivity)
	if in.ActivityName == "" {
		return in, fmt.Errorf("activity is required")
	}
	choice := m.form.fields[applyVenue].choice
	if len(m.venues) == 0 || choice >= len(m.venues) {
		return in, fmt.Errorf("no open venue selected")
	}
	in.VenueID = m.venues[choice].ID

	start, ok := datetime.Parse(m.form.value(applyStart))
	if !ok {
		return in, fmt.Errorf("start time: use YYYY-MM-DD HH:MM")
	}
	end, ok := datetime.Parse(m.form.value(applyEnd))
	if !ok {
		return in, fmt.Errorf("end time: use YYYY-MM-DD HH:MM")
	}
	if !end.After(start) {
		return in, fmt.Errorf("end time must be after start time")
	}
	in.StartTime = datetime.FormatCanonical(start)
	in.EndTime = datetime.FormatCanonical(end)

	materials, err := parseMaterials(m.form.value(applyMaterials))
	if err != nil {
		return in, err
	}
	in.RequestedMaterials = materials
	return in, nil
}

func (m applyModel) submit() (screen, tea.Cmd) {
	in, err := m.input()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.submitted = true
	c := m.client
	return m, func() tea.Msg {
		app, err := c.CreateApplication(context.Background(), in)
		return applicationCreatedMsg{app: app, err: err}
	}
}

func (m applyModel) View() string {
	s := "\n  " + titleStyle.Render("New application") + "\n\n"
	s += m.form.View(m.frame)
	s += "\n  " + metaStyle.Render("times are UTC+08:00") + "\n"
	if m.submitted {
		s += "  " + dimStyle.Render("submitting...")
	} else if m.status != "" {
		s += "  " + errorStyle.Render(m.status)
	}
	return s
}
