package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/domain"
)

type fakeSession struct {
	token         string
	profile       *domain.UserProfile
	profileLoaded bool

	storedToken   string
	storedProfile *domain.UserProfile

	fetchProfile *domain.UserProfile
	fetchErr     error

	hydrations int
	fetches    int
}

func (f *fakeSession) Token() string { return f.token }

func (f *fakeSession) Profile() (domain.UserProfile, bool) {
	if f.profile == nil {
		return domain.UserProfile{}, false
	}
	return *f.profile, true
}

func (f *fakeSession) ProfileLoaded() bool { return f.profileLoaded }

func (f *fakeSession) LoadFromDurableStorage() bool {
	f.hydrations++
	if f.storedToken == "" || f.token != "" {
		return false
	}
	f.token = f.storedToken
	f.profile = f.storedProfile
	return true
}

func (f *fakeSession) EnsureProfile(context.Context) (*domain.UserProfile, error) {
	if f.token == "" {
		return nil, nil
	}
	f.fetches++
	if f.fetchErr != nil {
		f.token, f.profile, f.profileLoaded = "", nil, false
		return nil, f.fetchErr
	}
	p := *f.fetchProfile
	f.profile = &p
	f.profileLoaded = true
	return &p, nil
}

func signedIn(role domain.Role) *fakeSession {
	p := &domain.UserProfile{Username: "u", Role: role}
	return &fakeSession{token: "T", profile: p, profileLoaded: true}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name       string
		session    *fakeSession
		path       string
		wantAction Action
		wantTarget string
	}{
		{name: "anonymous to login", session: &fakeSession{}, path: "/login", wantAction: Admit, wantTarget: PathLogin},
		{name: "anonymous to 404 page", session: &fakeSession{}, path: "/404", wantAction: Admit, wantTarget: PathNotFound},
		{name: "anonymous to dashboard", session: &fakeSession{}, path: "/dashboard", wantAction: Redirect, wantTarget: PathLogin},
		{name: "anonymous to root", session: &fakeSession{}, path: "/", wantAction: Redirect, wantTarget: PathLogin},
		{name: "anonymous unknown path", session: &fakeSession{}, path: "/nope", wantAction: Redirect, wantTarget: PathNotFound},
		{name: "signed in unknown path", session: signedIn(domain.RoleAdmin), path: "/manage/unknown", wantAction: Redirect, wantTarget: PathNotFound},
		{name: "admin root lands on dashboard", session: signedIn(domain.RoleAdmin), path: "/", wantAction: Redirect, wantTarget: PathDashboard},
		{name: "reviewer root lands on dashboard", session: signedIn(domain.RoleReviewer), path: "/", wantAction: Redirect, wantTarget: PathDashboard},
		{name: "user root lands on calendar", session: signedIn(domain.RoleUser), path: "/", wantAction: Redirect, wantTarget: PathCalendar},
		{name: "teacher root lands on calendar", session: signedIn(domain.RoleTeacher), path: "", wantAction: Redirect, wantTarget: PathCalendar},
		{name: "user to admin page", session: signedIn(domain.RoleUser), path: "/manage/users", wantAction: Redirect, wantTarget: PathForbidden},
		{name: "user to venue management", session: signedIn(domain.RoleUser), path: "/manage/venues", wantAction: Redirect, wantTarget: PathForbidden},
		{name: "admin to user page", session: signedIn(domain.RoleAdmin), path: "/apply/new", wantAction: Redirect, wantTarget: PathForbidden},
		{name: "reviewer to approvals", session: signedIn(domain.RoleReviewer), path: "/approval/list", wantAction: Admit, wantTarget: PathApprovals},
		{name: "admin to approvals", session: signedIn(domain.RoleAdmin), path: "/approval/list", wantAction: Admit, wantTarget: PathApprovals},
		{name: "teacher to calendar", session: signedIn(domain.RoleTeacher), path: "/venue-calendar", wantAction: Admit, wantTarget: PathCalendar},
		{name: "unknown role forbidden", session: signedIn(domain.Role("guest")), path: "/notifications", wantAction: Redirect, wantTarget: PathForbidden},
		{name: "trailing slash and query", session: signedIn(domain.RoleAdmin), path: "/manage/venues/?page=2", wantAction: Admit, wantTarget: PathVenues},
		{name: "signed in may open login", session: signedIn(domain.RoleUser), path: "/login", wantAction: Admit, wantTarget: PathLogin},
		{name: "hidden profile route", session: signedIn(domain.RoleUser), path: "/profile", wantAction: Admit, wantTarget: PathProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewGuard(tt.session).Navigate(context.Background(), tt.path)
			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantTarget, d.Target)
		})
	}
}

func TestNavigateHydratesFromStorage(t *testing.T) {
	s := &fakeSession{
		storedToken:   "T",
		storedProfile: &domain.UserProfile{Username: "old", Role: domain.RoleUser},
		fetchProfile:  &domain.UserProfile{Username: "rita", Role: domain.RoleReviewer},
	}

	d := NewGuard(s).Navigate(context.Background(), "/dashboard")
	assert.Equal(t, Admit, d.Action, "refreshed role decides, not the stored snapshot")
	assert.Equal(t, 1, s.hydrations)
	assert.Equal(t, 1, s.fetches)
}

func TestNavigateSkipsHydrationWithToken(t *testing.T) {
	s := signedIn(domain.RoleAdmin)
	NewGuard(s).Navigate(context.Background(), "/dashboard")
	assert.Zero(t, s.hydrations)
	assert.Zero(t, s.fetches)
}

func TestNavigateProfileFailureRedirectsToLogin(t *testing.T) {
	fetchErr := errors.New("profile unavailable")
	s := &fakeSession{token: "T", fetchErr: fetchErr}

	// Even a public destination is redirected: the refresh runs first.
	d := NewGuard(s).Navigate(context.Background(), "/404")
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, PathLogin, d.Target)
	assert.ErrorIs(t, d.Err, fetchErr)
	assert.Empty(t, s.token)
}

func TestNavigateAnonymousMakesNoFetch(t *testing.T) {
	s := &fakeSession{}
	NewGuard(s).Navigate(context.Background(), "/dashboard")
	assert.Zero(t, s.fetches)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		session *fakeSession
		path    string
		want    string
	}{
		{name: "admin root", session: signedIn(domain.RoleAdmin), path: "/", want: PathDashboard},
		{name: "user root", session: signedIn(domain.RoleUser), path: "/", want: PathCalendar},
		{name: "anonymous deep link", session: &fakeSession{}, path: "/manage/venues", want: PathLogin},
		{name: "guest root ends on 403", session: signedIn(domain.Role("guest")), path: "/", want: PathForbidden},
		{name: "unknown path", session: signedIn(domain.RoleUser), path: "/x/y", want: PathNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewGuard(tt.session).Resolve(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, Admit, d.Action)
			assert.Equal(t, tt.want, d.Route.Path)
		})
	}
}

func TestResolveKeepsProfileError(t *testing.T) {
	fetchErr := errors.New("down")
	d, err := NewGuard(&fakeSession{token: "T", fetchErr: fetchErr}).Resolve(context.Background(), "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, PathLogin, d.Route.Path)
	assert.ErrorIs(t, d.Err, fetchErr)
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGuard(&fakeSession{}).Resolve(ctx, "/")
	assert.ErrorIs(t, err, context.Canceled)
}

type profileAPI struct {
	profile *domain.UserProfile
	calls   int
}

func (p *profileAPI) Login(context.Context, domain.Credentials) (*domain.LoginResult, error) {
	return nil, errors.New("unused")
}

func (p *profileAPI) ProfileWithToken(context.Context, string) (*domain.UserProfile, error) {
	p.calls++
	cp := *p.profile
	return &cp, nil
}

func (p *profileAPI) Logout(context.Context, string) error { return nil }

func TestGuardWithSessionStore(t *testing.T) {
	storage := session.NewMemoryStorage()
	require.NoError(t, storage.Set(session.KeyToken, "fake-admin-token"))
	require.NoError(t, storage.Set(session.KeyUserInfo, `{"username":"admin","role":"admin"}`))
	api := &profileAPI{profile: &domain.UserProfile{Username: "admin", Role: domain.RoleAdmin}}
	store := session.NewStore(api, storage)
	g := NewGuard(store)

	d, err := g.Resolve(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, PathDashboard, d.Route.Path)

	d, err = g.Resolve(context.Background(), "/manage/users")
	require.NoError(t, err)
	assert.Equal(t, PathUsers, d.Route.Path)
	assert.Equal(t, 1, api.calls, "profile is fetched once per session")
}

func TestMenu(t *testing.T) {
	paths := func(rs []Route) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Path)
		}
		return out
	}

	assert.Equal(t, []string{PathDashboard, PathApprovals, PathVenues, PathMaterials, PathUsers, PathNotifications}, paths(Menu(domain.RoleAdmin)))
	assert.Equal(t, []string{PathDashboard, PathApprovals, PathNotifications}, paths(Menu(domain.RoleReviewer)))
	assert.Equal(t, []string{PathApplyNew, PathMyApplications, PathCalendar, PathNotifications}, paths(Menu(domain.RoleUser)))
	assert.Equal(t, paths(Menu(domain.RoleUser)), paths(Menu(domain.RoleTeacher)))
	assert.Empty(t, Menu(domain.Role("guest")))
}

func TestClean(t *testing.T) {
	for in, want := range map[string]string{
		"":                "/",
		"/":               "/",
		"dashboard":       "/dashboard",
		"/dashboard/":     "/dashboard",
		"/dashboard?x=1":  "/dashboard",
		"/profile#top":    "/profile",
		" /notifications": "/notifications",
	} {
		assert.Equal(t, want, Clean(in), "Clean(%q)", in)
	}
}
