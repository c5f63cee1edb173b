package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders text as a slow wave of light running from deep
// teal to bright cyan.
func renderShimmerLogo(text string, frame int) string {
	n := len(text)
	if n == 0 {
		return ""
	}

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}

		phase := t*0.1 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + 0.2
		if b > 1.0 {
			b = 1.0
		}

		// Deep:   (20, 60, 70)   #143c46
		// Bright: (94, 234, 212) #5eead4
		r := clampByte(20 + b*(94-20))
		g := clampByte(60 + b*(234-60))
		bl := clampByte(70 + b*(212-70))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString(" ")
		}
	}

	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5eead4")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Background(lipgloss.Color("#1e3a3a")).
			Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde2e2")).
			Background(lipgloss.Color("#5a1e1e")).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	statusColors = map[string]lipgloss.Color{
		domain.StatusPending:    lipgloss.Color("#f59e0b"),
		domain.StatusApproved:   lipgloss.Color("#4ade80"),
		domain.StatusRejected:   lipgloss.Color("#e06060"),
		domain.StatusCancelled:  lipgloss.Color("#606878"),
		domain.VenueOpen:        lipgloss.Color("#4ade80"),
		domain.VenueMaintenance: lipgloss.Color("#f59e0b"),
	}

	roleColors = map[domain.Role]lipgloss.Color{
		domain.RoleAdmin:    lipgloss.Color("#c084e0"),
		domain.RoleReviewer: lipgloss.Color("#60a0e0"),
		domain.RoleUser:     lipgloss.Color("#3ecce4"),
		domain.RoleTeacher:  lipgloss.Color("#d4a844"),
	}
)

// StatusStyle returns a style colored for an application or venue status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[strings.ToLower(status)]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0"))
}

// RoleStyle returns a bold style colored for a role.
func RoleStyle(role domain.Role) lipgloss.Style {
	if c, ok := roleColors[role]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into one help line.
func helpBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// bar renders a horizontal bar of width cells out of max.
func bar(value, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	n := value * width / max
	if value > 0 && n == 0 {
		n = 1
	}
	return barStyle.Render(strings.Repeat("█", n)) + metaStyle.Render(strings.Repeat("·", width-n))
}
