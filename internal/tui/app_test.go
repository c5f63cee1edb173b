package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/internal/mockapi"
	"github.com/naveenspark/venuebook/internal/router"
	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

func newTestApp() App {
	a := NewApp(Deps{})
	a.width = 100
	a.height = 40
	return a
}

// newBackedApp returns an app wired to an in-memory mock backend, the same way
// the binary wires it.
func newBackedApp(t *testing.T) (App, *session.Store) {
	t.Helper()
	now := time.Date(2025, 10, 26, 9, 0, 0, 0, datetime.Zone)
	srv := httptest.NewServer(mockapi.New(mockapi.WithClock(func() time.Time { return now })).Router())
	t.Cleanup(srv.Close)

	var store *session.Store
	c := client.New(srv.URL,
		client.WithTokenSource(func() string { return store.Token() }),
		client.WithUnauthorizedHandler(func(tok string) { store.Expire(tok) }),
	)
	store = session.NewStore(c, session.NewMemoryStorage())

	a := NewApp(Deps{Client: c, Session: store, ExportDir: t.TempDir()})
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model.(App), store
}

// navigate runs a navigation to completion, executing the guard command
// synchronously. The admitted screen's load command is returned unexecuted.
func navigate(t *testing.T, a App, path string) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(navigateMsg{path: path})
	if cmd == nil {
		t.Fatalf("navigate %s: no resolve command", path)
	}
	model, cmd = model.(App).Update(cmd())
	return model.(App), cmd
}

// collect executes cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppViewBeforeNavigation(t *testing.T) {
	a := newTestApp()
	view := a.View()
	if !strings.Contains(view, "loading...") {
		t.Errorf("expected loading body before the first navigation, got:\n%s", view)
	}
}

func TestAppAppliesOnlyLatestNavigation(t *testing.T) {
	a := newTestApp()
	a.navSeq = 2

	login, _ := router.Lookup(router.PathLogin)
	model, _ := a.Update(navigatedMsg{seq: 1, decision: router.Decision{Action: router.Admit, Route: login}})
	a = model.(App)
	if a.path != "" {
		t.Fatalf("stale navigation applied: path=%q", a.path)
	}

	model, _ = a.Update(navigatedMsg{seq: 2, decision: router.Decision{Action: router.Admit, Route: login}})
	a = model.(App)
	if a.path != router.PathLogin {
		t.Errorf("latest navigation not applied: path=%q", a.path)
	}
}

func TestAppNavigationCauseBecomesToast(t *testing.T) {
	a := newTestApp()
	a.navSeq = 1
	login, _ := router.Lookup(router.PathLogin)
	cause := &client.Fault{Kind: client.KindNetwork}

	_, cmd := a.Update(navigatedMsg{seq: 1, decision: router.Decision{Action: router.Admit, Route: login, Err: cause}})
	var toast *toastMsg
	for _, m := range collect(cmd) {
		if tm, ok := m.(toastMsg); ok {
			toast = &tm
		}
	}
	if toast == nil || !toast.isErr {
		t.Fatalf("expected an error toast, got %v", toast)
	}
	if toast.text != client.UserMessage(cause) {
		t.Errorf("toast = %q, want %q", toast.text, client.UserMessage(cause))
	}
}

func TestAppToastExpiry(t *testing.T) {
	a := newTestApp()
	model, cmd := a.Update(toastMsg{text: "first"})
	a = model.(App)
	if cmd == nil {
		t.Fatal("expected an expiry tick")
	}
	model, _ = a.Update(toastMsg{text: "second"})
	a = model.(App)

	model, _ = a.Update(toastExpiredMsg{seq: 1})
	a = model.(App)
	if a.toast != "second" {
		t.Errorf("stale expiry cleared the newer toast: %q", a.toast)
	}
	if !strings.Contains(a.View(), "second") {
		t.Error("expected toast in view")
	}

	model, _ = a.Update(toastExpiredMsg{seq: a.toastSeq})
	a = model.(App)
	if a.toast != "" {
		t.Errorf("toast not cleared: %q", a.toast)
	}
}

func TestAppExportedToast(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(exportedMsg{path: "/tmp/users.xlsx"})
	msgs := collect(cmd)
	if len(msgs) != 1 || msgs[0].(toastMsg).text != "exported to /tmp/users.xlsx" {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestAppQuitKeys(t *testing.T) {
	a := newTestApp()
	if _, cmd := a.Update(key("q")); cmd == nil {
		t.Error("expected quit on q outside of an input")
	}
	if _, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("expected quit on ctrl+c")
	}
}

func TestAppLoginTypesInsteadOfShortcuts(t *testing.T) {
	a := newTestApp()
	a.path = router.PathLogin
	model, _ := a.Update(key("q"))
	a = model.(App)
	lm := a.screens[router.PathLogin].(loginModel)
	if lm.form.value(loginUsername) != "q" {
		t.Errorf("q should be typed into the username, got %q", lm.form.value(loginUsername))
	}
}

func TestAppGuardFlow(t *testing.T) {
	a, store := newBackedApp(t)

	a, _ = navigate(t, a, router.PathRoot)
	if a.path != router.PathLogin {
		t.Fatalf("anonymous root: path=%q, want /login", a.path)
	}

	if _, err := store.Login(context.Background(), domain.Credentials{Username: "admin", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	a, _ = navigate(t, a, router.PathRoot)
	if a.path != router.PathDashboard {
		t.Fatalf("admin root: path=%q, want /dashboard", a.path)
	}

	a, _ = navigate(t, a, router.PathApplyNew)
	if a.path != router.PathForbidden {
		t.Errorf("admin on apply: path=%q, want /403", a.path)
	}

	a, _ = navigate(t, a, "/no/such/page")
	if a.path != router.PathNotFound {
		t.Errorf("unknown path: %q, want /404", a.path)
	}

	view := a.View()
	for _, want := range []string{"admin", "Administrator", "Dashboard", "Users"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestAppMenuDigits(t *testing.T) {
	a, store := newBackedApp(t)
	if _, err := store.Login(context.Background(), domain.Credentials{Username: "user"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	a, _ = navigate(t, a, router.PathRoot)
	if a.path != router.PathCalendar {
		t.Fatalf("user landing = %q, want calendar", a.path)
	}

	menu := router.Menu(domain.RoleUser)
	_, cmd := a.Update(key("2"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one navigation, got %v", msgs)
	}
	nav, ok := msgs[0].(navigateMsg)
	if !ok || nav.path != menu[1].Path {
		t.Errorf("digit 2 = %v, want navigation to %s", msgs[0], menu[1].Path)
	}

	if _, cmd := a.Update(key("9")); cmd != nil {
		t.Error("digit past the menu should do nothing")
	}
}

func TestAppSessionEndedRebuildsScreens(t *testing.T) {
	a, store := newBackedApp(t)
	if _, err := store.Login(context.Background(), domain.Credentials{Username: "user"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	var cmd tea.Cmd
	a, cmd = navigate(t, a, router.PathMyApplications)
	if a.path != router.PathMyApplications {
		t.Fatalf("path = %q", a.path)
	}
	// Run the screen load against the backend.
	for _, m := range collect(cmd) {
		model, _ := a.Update(m)
		a = model.(App)
	}
	if apps := a.screens[router.PathMyApplications].(myAppsModel).apps; len(apps) != 1 {
		t.Fatalf("expected the user's fixture application, got %d", len(apps))
	}

	store.Expire(store.Token())
	model, cmd := a.Update(SessionEndedMsg{Reason: session.ReasonExpired})
	a = model.(App)

	if apps := a.screens[router.PathMyApplications].(myAppsModel).apps; apps != nil {
		t.Error("screen state survived the session")
	}
	var sawLogin, sawToast bool
	for _, m := range collect(cmd) {
		switch m := m.(type) {
		case navigateMsg:
			sawLogin = m.path == router.PathLogin
		case toastMsg:
			sawToast = m.isErr && strings.Contains(m.text, "expired")
		}
	}
	if !sawLogin || !sawToast {
		t.Errorf("after expiry: navigate-to-login=%v expired-toast=%v", sawLogin, sawToast)
	}
}

func TestAppReplacedSessionRebuildsInPlace(t *testing.T) {
	a, store := newBackedApp(t)
	if _, err := store.Login(context.Background(), domain.Credentials{Username: "user"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	var cmd tea.Cmd
	a, cmd = navigate(t, a, router.PathMyApplications)
	for _, m := range collect(cmd) {
		model, _ := a.Update(m)
		a = model.(App)
	}

	model, cmd := a.Update(SessionEndedMsg{Reason: session.ReasonReplaced})
	a = model.(App)

	if apps := a.screens[router.PathMyApplications].(myAppsModel).apps; apps != nil {
		t.Error("previous user's applications survived the new login")
	}
	if a.path != router.PathMyApplications {
		t.Errorf("path = %q, want it unchanged", a.path)
	}
	if cmd != nil {
		t.Errorf("replaced session should not navigate or toast, got %T", cmd())
	}
}
