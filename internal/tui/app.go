package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/venuebook/internal/router"
	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

const toastTTL = 4 * time.Second

// Deps wires the app to the API and the session it runs against.
type Deps struct {
	Client    *client.Client
	Session   *session.Store
	Guard     *router.Guard
	ExportDir string
	Version   string
}

// screen is one routed view. Screens are value models like tea.Model but
// return themselves as screens so the app can keep them in one table.
type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (screen, tea.Cmd)
	View() string
	// editing reports whether keys should go to an input instead of the
	// global shortcuts.
	editing() bool
	helpKeys() string
}

// navigateMsg asks the app to run the guard for path.
type navigateMsg struct {
	path string
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// navigatedMsg carries a guard resolution. Only the latest seq is applied.
type navigatedMsg struct {
	seq      int
	decision router.Decision
	err      error
}

// SessionEndedMsg tells the app the session was cleared, by logout or by the
// server rejecting the token.
type SessionEndedMsg struct {
	Reason session.Reason
}

type toastMsg struct {
	text  string
	isErr bool
}

type toastExpiredMsg struct {
	seq int
}

func showToast(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text} }
}

func showError(err error) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: client.UserMessage(err), isErr: true} }
}

// App is the root Bubbletea model.
type App struct {
	deps     Deps
	path     string
	screens  map[string]screen
	navSeq   int
	toast    string
	toastErr bool
	toastSeq int
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(deps Deps) App {
	if deps.Guard == nil && deps.Session != nil {
		deps.Guard = router.NewGuard(deps.Session)
	}
	return App{
		deps:    deps,
		screens: newScreens(deps),
	}
}

func newScreens(d Deps) map[string]screen {
	return map[string]screen{
		router.PathLogin:          newLoginModel(d.Session),
		router.PathForbidden:      newStatusModel(router.PathForbidden),
		router.PathNotFound:       newStatusModel(router.PathNotFound),
		router.PathDashboard:      newDashboardModel(d.Client),
		router.PathApplyNew:       newApplyModel(d.Client),
		router.PathMyApplications: newMyAppsModel(d.Client, d.ExportDir),
		router.PathCalendar:       newCalendarModel(d.Client),
		router.PathApprovals:      newApprovalsModel(d.Client),
		router.PathVenues:         newVenuesModel(d.Client),
		router.PathMaterials:      newMaterialsModel(d.Client),
		router.PathUsers:          newUsersModel(d.Client, d.ExportDir),
		router.PathNotifications:  newNotificationsModel(d.Client),
		router.PathProfile:        newProfileModel(d.Session, d.Version),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), navigateTo(router.PathRoot))
}

func (a App) resolve(path string, seq int) tea.Cmd {
	g := a.deps.Guard
	return func() tea.Msg {
		d, err := g.Resolve(context.Background(), path)
		return navigatedMsg{seq: seq, decision: d, err: err}
	}
}

func (a App) profile() domain.UserProfile {
	if a.deps.Session == nil {
		return domain.UserProfile{}
	}
	p, _ := a.deps.Session.Profile()
	return p
}

func (a App) active() screen {
	return a.screens[a.path]
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.broadcast(a.bodySize())
		return a, nil

	case shimmerTickMsg:
		a.frame++
		a.broadcast(msg)
		return a, shimmerTickCmd()

	case navigateMsg:
		a.navSeq++
		return a, a.resolve(msg.path, a.navSeq)

	case navigatedMsg:
		if msg.seq != a.navSeq {
			return a, nil
		}
		if msg.err != nil {
			return a, showError(msg.err)
		}
		a.path = msg.decision.Route.Path
		var cmds []tea.Cmd
		if s := a.active(); s != nil {
			cmds = append(cmds, s.Init())
		}
		if msg.decision.Err != nil {
			cmds = append(cmds, showError(msg.decision.Err))
		}
		return a, tea.Batch(cmds...)

	case SessionEndedMsg:
		a.screens = newScreens(a.deps)
		a.broadcast(a.bodySize())
		if msg.Reason == session.ReasonReplaced {
			// A new login is already committed; its own result navigates.
			return a, nil
		}
		cmds := []tea.Cmd{navigateTo(router.PathLogin)}
		switch msg.Reason {
		case session.ReasonExpired:
			cmds = append(cmds, func() tea.Msg {
				return toastMsg{text: "session expired, please sign in again", isErr: true}
			})
		case session.ReasonProfileFailed:
			cmds = append(cmds, func() tea.Msg {
				return toastMsg{text: "could not load your profile, please sign in again", isErr: true}
			})
		default:
			cmds = append(cmds, showToast("signed out"))
		}
		return a, tea.Batch(cmds...)

	case toastMsg:
		a.toast = msg.text
		a.toastErr = msg.isErr
		a.toastSeq++
		seq := a.toastSeq
		return a, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case exportedMsg:
		if msg.err != nil {
			return a, showError(msg.err)
		}
		return a, showToast("exported to " + msg.path)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		s := a.active()
		if s == nil || !s.editing() {
			if cmd, ok := a.globalKey(msg.String()); ok {
				return a, cmd
			}
		}
		if s == nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.screens[a.path], cmd = s.Update(msg)
		return a, cmd
	}

	// Everything else is a load result or a tick; every screen sees it and
	// ignores what is not its own.
	var cmds []tea.Cmd
	for path, s := range a.screens {
		var cmd tea.Cmd
		a.screens[path], cmd = s.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// globalKey handles keys that work on every screen that is not editing.
func (a App) globalKey(key string) (tea.Cmd, bool) {
	switch key {
	case "q":
		return tea.Quit, true
	case "p":
		if a.deps.Session != nil && a.deps.Session.Token() != "" {
			return navigateTo(router.PathProfile), true
		}
	case "r":
		if s := a.active(); s != nil {
			return s.Init(), true
		}
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 {
		menu := router.Menu(a.profile().Role)
		if n <= len(menu) {
			return navigateTo(menu[n-1].Path), true
		}
	}
	return nil, false
}

// broadcast delivers msg to every screen and drops their commands. Used for
// sizing and animation frames.
func (a App) broadcast(msg tea.Msg) {
	for path, s := range a.screens {
		a.screens[path], _ = s.Update(msg)
	}
}

// Chrome: header(2) + tabs(1) + toast(1) + help(1) = 5 lines
const chromeLines = 5

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - chromeLines}
}

func (a App) View() string {
	logo := renderShimmerLogo("VENUEBOOK", a.frame)
	header := center(logo, a.width) + "\n"

	p := a.profile()
	if a.deps.Session != nil && a.deps.Session.Token() != "" && !p.Empty() {
		who := selectedStyle.Render(p.Username) + metaStyle.Render(" . ") + RoleStyle(p.Role).Render(p.Role.Label())
		header += center(who, a.width)
	} else if a.deps.Version != "" {
		header += center(metaStyle.Render(a.deps.Version), a.width)
	}

	tabBar := a.tabBar(router.Menu(p.Role))

	var body, help string
	if s := a.active(); s != nil {
		body = s.View()
		help = s.helpKeys()
	} else {
		body = dimStyle.Render("  loading...")
	}
	if a.path != router.PathLogin {
		global := helpBar("1-9", "menu", "p", "profile", "r", "reload", "q", "quit")
		if help != "" {
			help = help + "  " + global
		} else {
			help = global
		}
	}

	toast := ""
	if a.toast != "" {
		if a.toastErr {
			toast = " " + toastErrorStyle.Render(a.toast)
		} else {
			toast = " " + toastStyle.Render(a.toast)
		}
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-chromeLines), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n %s", header, tabBar, body, toast, help)
}

func (a App) tabBar(menu []router.Route) string {
	if len(menu) == 0 {
		return ""
	}
	colWidth := a.width / len(menu)
	var b strings.Builder
	for i, r := range menu {
		key := strconv.Itoa(i + 1)
		var label string
		if r.Path == a.path {
			label = accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(r.Title)
		} else {
			label = metaStyle.Render(key) + " " + dimStyle.Render(r.Title)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		b.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return b.String()
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
