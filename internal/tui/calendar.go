package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

const calendarDays = 7

type calendarVenuesMsg struct {
	venues []domain.Venue
	err    error
}

type calendarBookingsMsg struct {
	venueID  int64
	from     time.Time
	bookings []domain.Booking
	err      error
}

// calendarModel shows one venue's bookings for a week, bucketed by day in the
// fixed booking zone.
type calendarModel struct {
	client    *client.Client
	venues    []domain.Venue
	cursor    int
	weekStart time.Time
	bookings  []domain.Booking
	err       string
	loading   bool
}

func newCalendarModel(c *client.Client) calendarModel {
	return calendarModel{client: c, weekStart: startOfDay(time.Now())}
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.In(datetime.Zone).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, datetime.Zone)
}

func (m calendarModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		venues, err := c.ListVenues(context.Background(), "")
		return calendarVenuesMsg{venues: venues, err: err}
	}
}

func (m calendarModel) loadBookings() tea.Cmd {
	if m.cursor >= len(m.venues) {
		return nil
	}
	c := m.client
	id := m.venues[m.cursor].ID
	from := m.weekStart
	to := from.AddDate(0, 0, calendarDays)
	return func() tea.Msg {
		bookings, err := c.VenueBookings(context.Background(), id, from, to)
		return calendarBookingsMsg{venueID: id, from: from, bookings: bookings, err: err}
	}
}

func (m calendarModel) selectedID() int64 {
	if m.cursor < len(m.venues) {
		return m.venues[m.cursor].ID
	}
	return 0
}

func (m calendarModel) editing() bool { return false }

func (m calendarModel) helpKeys() string {
	return helpBar("j/k", "venue", "h/l", "week", "t", "today")
}

func (m calendarModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarVenuesMsg:
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.venues = msg.venues
		if m.cursor >= len(m.venues) {
			m.cursor = 0
		}
		m.loading = true
		return m, m.loadBookings()

	case calendarBookingsMsg:
		if msg.venueID != m.selectedID() || !msg.from.Equal(m.weekStart) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.bookings = msg.bookings

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.venues)-1 {
				m.cursor++
				m.bookings = nil
				m.loading = true
				return m, m.loadBookings()
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
				m.bookings = nil
				m.loading = true
				return m, m.loadBookings()
			}
		case "h", "left":
			m.weekStart = m.weekStart.AddDate(0, 0, -calendarDays)
			m.loading = true
			return m, m.loadBookings()
		case "l", "right":
			m.weekStart = m.weekStart.AddDate(0, 0, calendarDays)
			m.loading = true
			return m, m.loadBookings()
		case "t":
			m.weekStart = startOfDay(time.Now())
			m.loading = true
			return m, m.loadBookings()
		}
	}
	return m, nil
}

// byDay buckets bookings by calendar day, each bucket sorted by start.
func byDay(bookings []domain.Booking) map[string][]domain.Booking {
	out := make(map[string][]domain.Booking)
	for _, b := range bookings {
		key := datetime.DateKey(b.StartTime)
		if key == "" {
			continue
		}
		out[key] = append(out[key], b)
	}
	for key := range out {
		day := out[key]
		sort.SliceStable(day, func(i, j int) bool {
			a, _ := datetime.Millis(day[i].StartTime)
			b, _ := datetime.Millis(day[j].StartTime)
			return a < b
		})
	}
	return out
}

func (m calendarModel) View() string {
	if m.err != "" {
		return "\n  " + errorStyle.Render(m.err)
	}
	if m.venues == nil {
		return "\n  " + dimStyle.Render("loading...")
	}
	if len(m.venues) == 0 {
		return "\n  " + dimStyle.Render("no venues")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, v := range m.venues {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", cursor, style.Render(v.Name),
			metaStyle.Render(fmt.Sprintf("%s, %d seats", v.Location, v.Capacity)),
			StatusStyle(v.Status).Render(v.Status))
	}

	end := m.weekStart.AddDate(0, 0, calendarDays-1)
	fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render(fmt.Sprintf("%s - %s",
		m.weekStart.Format("2006-01-02"), end.Format("2006-01-02"))))

	days := byDay(m.bookings)
	for i := 0; i < calendarDays; i++ {
		day := m.weekStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		fmt.Fprintf(&b, "  %s %s", metaStyle.Render(day.Format("Mon")), dimStyle.Render(key))
		entries := days[key]
		if len(entries) == 0 {
			b.WriteString("  " + metaStyle.Render("free") + "\n")
			continue
		}
		b.WriteString("\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "      %s  %s  %s\n",
				dimStyle.Render(formatRange(e.StartTime, e.EndTime)),
				normalStyle.Render(truncStr(e.ActivityName, 40)),
				StatusStyle(e.Status).Render(e.Status))
		}
	}
	if m.loading {
		b.WriteString("\n  " + dimStyle.Render("loading bookings..."))
	}
	return b.String()
}
