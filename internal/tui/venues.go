package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// catalogueMode is the interaction state shared by the venue and material
// admin screens.
type catalogueMode int

const (
	modeList catalogueMode = iota
	modeForm
	modeConfirm
)

const (
	venueName = iota
	venueLocation
	venueCapacity
)

type venuesLoadedMsg struct {
	venues []domain.Venue
	err    error
}

type venueSavedMsg struct {
	text string
	err  error
}

type venuesModel struct {
	client *client.Client
	venues []domain.Venue
	cursor int
	mode   catalogueMode
	editID int64 // 0 while creating
	form   form
	status string
	err    string
	frame  int
}

func newVenueForm() form {
	return newForm(
		formField{label: "name"},
		formField{label: "location"},
		formField{label: "capacity", placeholder: "seats"},
	)
}

func newVenuesModel(c *client.Client) venuesModel {
	return venuesModel{client: c, form: newVenueForm()}
}

func (m venuesModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		venues, err := c.ListVenues(context.Background(), "")
		return venuesLoadedMsg{venues: venues, err: err}
	}
}

func (m venuesModel) editing() bool { return m.mode != modeList }

func (m venuesModel) helpKeys() string {
	switch m.mode {
	case modeForm:
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	case modeConfirm:
		return helpBar("y", "delete", "n", "keep")
	}
	return helpBar("j/k", "nav", "n", "new", "enter", "edit", "s", "toggle status", "d", "delete")
}

func (m venuesModel) selected() (domain.Venue, bool) {
	if m.cursor < len(m.venues) {
		return m.venues[m.cursor], true
	}
	return domain.Venue{}, false
}

func (m venuesModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++

	case venuesLoadedMsg:
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.venues = msg.venues
		if m.cursor >= len(m.venues) {
			m.cursor = 0
		}

	case venueSavedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		return m, tea.Batch(showToast(msg.text), m.Init())

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			m.mode = modeList
			if msg.String() == "y" {
				if v, ok := m.selected(); ok {
					return m, m.save(func(ctx context.Context) (string, error) {
						return fmt.Sprintf("venue %q deleted", v.Name), m.client.DeleteVenue(ctx, v.ID)
					})
				}
			}
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m venuesModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.venues)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "n":
		m.mode = modeForm
		m.editID = 0
		m.status = ""
		m.form = newVenueForm()
	case "enter":
		if v, ok := m.selected(); ok {
			m.mode = modeForm
			m.editID = v.ID
			m.status = ""
			m.form = newVenueForm()
			m.form.fields[venueName].value = v.Name
			m.form.fields[venueLocation].value = v.Location
			m.form.fields[venueCapacity].value = strconv.Itoa(v.Capacity)
		}
	case "s":
		if v, ok := m.selected(); ok {
			in := domain.VenueInput{Name: v.Name, Location: v.Location, Capacity: v.Capacity, Status: domain.VenueMaintenance}
			if v.Status == domain.VenueMaintenance {
				in.Status = domain.VenueOpen
			}
			return m, m.save(func(ctx context.Context) (string, error) {
				_, err := m.client.UpdateVenue(ctx, v.ID, in)
				return fmt.Sprintf("venue %q is now %s", v.Name, in.Status), err
			})
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirm
		}
	}
	return m, nil
}

func (m venuesModel) updateForm(msg tea.KeyMsg) (screen, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeList
		return m, nil
	}
	m.status = ""
	var submit bool
	m.form, submit = m.form.update(msg)
	if !submit {
		return m, nil
	}

	in, err := m.input()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.mode = modeList
	id := m.editID
	if id == 0 {
		return m, m.save(func(ctx context.Context) (string, error) {
			v, err := m.client.CreateVenue(ctx, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("venue %q created", v.Name), nil
		})
	}
	if v, ok := m.selected(); ok && v.ID == id {
		in.Status = v.Status
	}
	return m, m.save(func(ctx context.Context) (string, error) {
		_, err := m.client.UpdateVenue(ctx, id, in)
		return fmt.Sprintf("venue %q saved", in.Name), err
	})
}

func (m venuesModel) input() (domain.VenueInput, error) {
	in := domain.VenueInput{
		Name:     m.form.value(venueName),
		Location: m.form.value(venueLocation),
	}
	if in.Name == "" {
		return in, fmt.Errorf("name is required")
	}
	capacity, err := strconv.Atoi(m.form.value(venueCapacity))
	if err != nil || capacity <= 0 {
		return in, fmt.Errorf("capacity must be a positive number")
	}
	in.Capacity = capacity
	return in, nil
}

// save runs a catalogue write and reports it as a venueSavedMsg.
func (m venuesModel) save(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := fn(context.Background())
		return venueSavedMsg{text: text, err: err}
	}
}

func (m venuesModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Venues") + "\n\n")

	if m.mode == modeForm {
		title := "new venue"
		if m.editID != 0 {
			title = fmt.Sprintf("edit venue #%d", m.editID)
		}
		b.WriteString("  " + sectionHeaderStyle.Render(strings.ToUpper(title)) + "\n")
		b.WriteString(m.form.View(m.frame))
		if m.status != "" {
			b.WriteString("\n  " + errorStyle.Render(m.status))
		}
		return b.String()
	}

	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	}
	if m.venues == nil {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}
	if len(m.venues) == 0 {
		b.WriteString("  " + dimStyle.Render("no venues, press n to add one"))
		return b.String()
	}

	for i, v := range m.venues {
		prefix := "  "
		style := normalStyle
		if i == m.cursor {
			prefix = accentStyle.Render("> ")
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s  %s\n", prefix,
			metaStyle.Render(fmt.Sprintf("#%-3d", v.ID)),
			style.Render(truncStr(v.Name, 30)),
			dimStyle.Render(truncStr(v.Location, 24)),
			dimStyle.Render(fmt.Sprintf("%d seats", v.Capacity)),
			StatusStyle(v.Status).Render(v.Status))
	}
	if m.mode == modeConfirm {
		if v, ok := m.selected(); ok {
			fmt.Fprintf(&b, "\n  %s", warnStyle.Render(fmt.Sprintf("delete %s? (y/n)", v.Name)))
		}
	}
	return b.String()
}
