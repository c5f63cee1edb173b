package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Date(2025, 10, 26, 9, 0, 0, 0, datetime.Zone)
	srv := httptest.NewServer(New(WithClock(func() time.Time { return now })).Router())
	t.Cleanup(srv.Close)
	return srv
}

// loginAs returns a client bound to a session store signed in as username.
func loginAs(t *testing.T, srv *httptest.Server, username string) (*client.Client, *session.Store) {
	t.Helper()
	var store *session.Store
	c := client.New(srv.URL,
		client.WithTokenSource(func() string { return store.Token() }),
		client.WithUnauthorizedHandler(func(tok string) { store.Expire(tok) }),
	)
	store = session.NewStore(c, session.NewMemoryStorage())
	_, err := store.Login(context.Background(), domain.Credentials{Username: username, Password: "pw"})
	require.NoError(t, err)
	return c, store
}

func TestReviewerRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c, store := loginAs(t, srv, "reviewer")

	assert.Equal(t, "fake-reviewer-token", store.Token())

	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReviewer, profile.Role)

	pending, err := c.PendingApprovals(context.Background(), client.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Club Recruitment Talk", pending[0].ActivityName)
	assert.Equal(t, "Multipurpose Meeting Room", pending[0].VenueName)
}

func TestMockLoginRoles(t *testing.T) {
	srv := newTestServer(t)
	for username, want := range map[string]domain.Role{
		"admin":    domain.RoleAdmin,
		"reviewer": domain.RoleReviewer,
		"teacher":  domain.RoleTeacher,
		"alice":    domain.RoleUser,
	} {
		_, store := loginAs(t, srv, username)
		p, ok := store.Profile()
		require.True(t, ok)
		assert.Equal(t, want, p.Role, username)
		assert.Equal(t, "fake-"+string(want)+"-token", store.Token())
	}
}

func TestMissingBearerIs401(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/auth/profile")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, err = client.New(srv.URL, client.WithToken("fake-admin-token")).ListVenues(context.Background(), "")
	assert.True(t, client.IsKind(err, client.KindUnauthorized), "no login yet, token unknown")
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	_, store := loginAs(t, srv, "admin")

	store.Logout(context.Background())

	_, err := client.New(srv.URL, client.WithToken("fake-admin-token")).ListUsers(context.Background(), "")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	srv := newTestServer(t)
	c, store := loginAs(t, srv, "user")

	// Revoke server-side only.
	require.NoError(t, client.New(srv.URL).Logout(context.Background(), "fake-user-token"))

	_, err := c.MyApplications(context.Background(), client.ApplicationFilter{})
	require.True(t, client.IsKind(err, client.KindUnauthorized))
	assert.Empty(t, store.Token(), "401 ends the local session")
}

func TestRoleChecks(t *testing.T) {
	srv := newTestServer(t)
	userClient, _ := loginAs(t, srv, "user")

	_, err := userClient.ListUsers(context.Background(), "")
	assert.True(t, client.IsKind(err, client.KindForbidden))

	_, err = userClient.DashboardStats(context.Background())
	assert.True(t, client.IsKind(err, client.KindForbidden))

	err = userClient.ApproveApplication(context.Background(), 2)
	assert.True(t, client.IsKind(err, client.KindForbidden))
}

func TestApplicationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	user, _ := loginAs(t, srv, "user")
	reviewer, _ := loginAs(t, srv, "reviewer")
	ctx := context.Background()

	start := time.Date(2025, 11, 1, 9, 0, 0, 0, datetime.Zone)
	end := start.Add(2 * time.Hour)

	available, err := user.AvailableVenues(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, available, 3, "maintenance venue is excluded")

	created, err := user.CreateApplication(ctx, domain.ApplicationInput{
		ActivityName: "Chess Club",
		VenueID:      1,
		StartTime:    datetime.FormatCanonical(start),
		EndTime:      datetime.FormatCanonical(end),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)

	_, err = user.CreateApplication(ctx, domain.ApplicationInput{
		ActivityName: "Clash",
		VenueID:      1,
		StartTime:    datetime.FormatCanonical(start.Add(time.Hour)),
		EndTime:      datetime.FormatCanonical(end.Add(time.Hour)),
	})
	assert.True(t, client.IsKind(err, client.KindApplication), "overlap is a business failure")

	bookings, err := user.VenueBookings(ctx, 1, start.Add(-time.Hour), end)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Chess Club", bookings[0].ActivityName)

	require.NoError(t, reviewer.RejectApplication(ctx, created.ID, "double booked"))
	err = reviewer.ApproveApplication(ctx, created.ID)
	assert.True(t, client.IsKind(err, client.KindApplication), "already decided")

	mine, err := user.MyApplications(ctx, client.ApplicationFilter{Status: domain.StatusRejected})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "double booked", mine[0].RejectReason)

	notes, err := user.ListNotifications(ctx, true)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Content, "double booked")

	require.NoError(t, user.MarkAllNotificationsRead(ctx))
	notes, err = user.ListNotifications(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestAdminCatalogue(t *testing.T) {
	srv := newTestServer(t)
	admin, _ := loginAs(t, srv, "admin")
	ctx := context.Background()

	v, err := admin.CreateVenue(ctx, domain.VenueInput{Name: "Studio", Location: "D 2F", Capacity: 40})
	require.NoError(t, err)
	assert.Equal(t, domain.VenueOpen, v.Status)

	v, err = admin.UpdateVenue(ctx, v.ID, domain.VenueInput{Name: "Studio", Location: "D 2F", Capacity: 40, Status: domain.VenueMaintenance})
	require.NoError(t, err)
	assert.Equal(t, domain.VenueMaintenance, v.Status)
	require.NoError(t, admin.DeleteVenue(ctx, v.ID))

	err = admin.DeleteVenue(ctx, 1)
	assert.True(t, client.IsKind(err, client.KindApplication), "venue 1 has an approved booking")

	mats, err := admin.ListMaterials(ctx, "Audio")
	require.NoError(t, err)
	assert.Len(t, mats, 2)

	got, err := admin.SetAlertThreshold(ctx, 35)
	require.NoError(t, err)
	assert.Equal(t, 35, got)
	got, err = admin.AlertThreshold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 35, got)

	users, err := admin.ListUsers(ctx, domain.RoleUser)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	stats, err := admin.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalApplications)
	assert.Equal(t, 1, stats.PendingApplications)
	assert.Equal(t, 4, stats.TotalVenues)

	trends, err := admin.DashboardTrends(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trends, 3)
	assert.Equal(t, "2025-10-26", trends[2].Date)
	assert.Equal(t, 1, trends[2].Count)
	assert.Equal(t, 1, trends[1].Count)
}

func TestLoginOverLiveSessionRevokesPrevious(t *testing.T) {
	srv := newTestServer(t)
	c, store := loginAs(t, srv, "admin")

	_, err := store.Login(context.Background(), domain.Credentials{Username: "reviewer", Password: "pw"})
	require.NoError(t, err)

	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReviewer, profile.Role)

	_, err = client.New(srv.URL, client.WithToken("fake-admin-token")).ListUsers(context.Background(), "")
	assert.True(t, client.IsKind(err, client.KindUnauthorized), "replaced token is revoked")
}
