package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/venuebook/pkg/domain"
)

type fakeAPI struct {
	mu sync.Mutex

	loginResult *domain.LoginResult
	loginErr    error
	profile     *domain.UserProfile
	profileErr  error
	logoutErr   error

	loginCalls   int
	profileCalls int
	logoutTokens []string
}

func (f *fakeAPI) Login(_ context.Context, _ domain.Credentials) (*domain.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResult, f.loginErr
}

func (f *fakeAPI) ProfileWithToken(_ context.Context, _ string) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutTokens = append(f.logoutTokens, token)
	return f.logoutErr
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls + f.profileCalls + len(f.logoutTokens)
}

func alice() *domain.UserProfile {
	return &domain.UserProfile{Username: "alice", Role: domain.RoleUser}
}

func newTestStore(api *fakeAPI) (*Store, *MemoryStorage) {
	storage := NewMemoryStorage()
	return NewStore(api, storage), storage
}

func TestLoginPersistsTokenAndProfile(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	store, storage := newTestStore(api)

	profile, err := store.Login(context.Background(), domain.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "T1", store.Token())
	assert.True(t, store.ProfileLoaded())

	tok, ok, _ := storage.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "T1", tok)
	info, ok, _ := storage.Get(KeyUserInfo)
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"alice","role":"user"}`, info)
}

func TestLoginFetchesProfileWhenMissing(t *testing.T) {
	api := &fakeAPI{
		loginResult: &domain.LoginResult{Token: "T1"},
		profile:     &domain.UserProfile{Username: "rita", Role: domain.RoleReviewer},
	}
	store, _ := newTestStore(api)

	profile, err := store.Login(context.Background(), domain.Credentials{Username: "rita"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReviewer, profile.Role)
	assert.Equal(t, 1, api.profileCalls)
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	loginErr := errors.New("bad credentials")
	api := &fakeAPI{loginErr: loginErr}
	store, storage := newTestStore(api)

	_, err := store.Login(context.Background(), domain.Credentials{Username: "x"})
	require.ErrorIs(t, err, loginErr)
	assert.Empty(t, store.Token())
	_, ok, _ := storage.Get(KeyToken)
	assert.False(t, ok)
}

func TestLoginProfileFetchFailureCommitsNothing(t *testing.T) {
	api := &fakeAPI{
		loginResult: &domain.LoginResult{Token: "T1"},
		profileErr:  errors.New("boom"),
	}
	store, storage := newTestStore(api)

	_, err := store.Login(context.Background(), domain.Credentials{Username: "x"})
	require.Error(t, err)
	assert.Empty(t, store.Token())
	_, ok, _ := storage.Get(KeyToken)
	assert.False(t, ok)
}

type failingStorage struct {
	*MemoryStorage
	failKey string
}

func (f *failingStorage) Set(key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(key, value)
}

func TestLoginRollsBackPartialPersist(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), failKey: KeyUserInfo}
	store := NewStore(api, storage)

	_, err := store.Login(context.Background(), domain.Credentials{Username: "alice"})
	require.Error(t, err)
	assert.Empty(t, store.Token())
	_, ok, _ := storage.Get(KeyToken)
	assert.False(t, ok, "token write should be rolled back")
}

func TestEnsureProfileWithoutTokenMakesNoCalls(t *testing.T) {
	api := &fakeAPI{profile: alice()}
	store, _ := newTestStore(api)

	profile, err := store.EnsureProfile(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Zero(t, api.calls())
}

func TestEnsureProfileFetchesOnce(t *testing.T) {
	api := &fakeAPI{profile: alice()}
	store, storage := newTestStore(api)
	require.NoError(t, storage.Set(KeyToken, "T1"))
	require.True(t, store.LoadFromDurableStorage())

	for i := 0; i < 3; i++ {
		profile, err := store.EnsureProfile(context.Background())
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "alice", profile.Username)
	}
	assert.Equal(t, 1, api.profileCalls)
	assert.True(t, store.ProfileLoaded())

	info, ok, _ := storage.Get(KeyUserInfo)
	require.True(t, ok)
	assert.Contains(t, info, "alice")
}

func TestEnsureProfileFailureLogsOut(t *testing.T) {
	fetchErr := errors.New("profile unavailable")
	api := &fakeAPI{profileErr: fetchErr}
	store, storage := newTestStore(api)
	require.NoError(t, storage.Set(KeyToken, "T1"))
	require.NoError(t, storage.Set(KeyUserInfo, `{"username":"alice","role":"user"}`))
	store.LoadFromDurableStorage()

	var reasons []Reason
	store.OnLogout(func(r Reason) { reasons = append(reasons, r) })

	profile, err := store.EnsureProfile(context.Background())
	require.ErrorIs(t, err, fetchErr)
	assert.Nil(t, profile)
	assert.Empty(t, store.Token())
	assert.Equal(t, []Reason{ReasonProfileFailed}, reasons)

	_, ok, _ := storage.Get(KeyToken)
	assert.False(t, ok)
	_, ok, _ = storage.Get(KeyUserInfo)
	assert.False(t, ok)
}

func TestEnsureProfileRejectsEmptyProfile(t *testing.T) {
	api := &fakeAPI{profile: &domain.UserProfile{}}
	store, storage := newTestStore(api)
	require.NoError(t, storage.Set(KeyToken, "T1"))
	store.LoadFromDurableStorage()

	_, err := store.EnsureProfile(context.Background())
	require.ErrorIs(t, err, ErrEmptyProfile)
	assert.Empty(t, store.Token())
}

func TestLogoutIsIdempotent(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	store, storage := newTestStore(api)
	_, err := store.Login(context.Background(), domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	hooks := 0
	store.OnLogout(func(Reason) { hooks++ })

	store.Logout(context.Background())
	store.Logout(context.Background())

	assert.Empty(t, store.Token())
	_, ok := store.Profile()
	assert.False(t, ok)
	assert.False(t, store.ProfileLoaded())
	_, ok, _ = storage.Get(KeyToken)
	assert.False(t, ok)
	assert.Equal(t, []string{"T1"}, api.logoutTokens, "remote logout only with a token")
	assert.Equal(t, 2, hooks)
}

func TestLogoutSwallowsRemoteFailure(t *testing.T) {
	api := &fakeAPI{
		loginResult: &domain.LoginResult{Token: "T1", User: alice()},
		logoutErr:   errors.New("network down"),
	}
	store, _ := newTestStore(api)
	_, err := store.Login(context.Background(), domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	store.Logout(context.Background())
	assert.Empty(t, store.Token())
}

func TestExpireIgnoresStaleToken(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T2", User: alice()}}
	store, _ := newTestStore(api)
	_, err := store.Login(context.Background(), domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	fired := 0
	store.OnLogout(func(Reason) { fired++ })

	store.Expire("T1")
	assert.Equal(t, "T2", store.Token())
	assert.Zero(t, fired)

	store.Expire("T2")
	store.Expire("T2")
	assert.Empty(t, store.Token())
	assert.Equal(t, 1, fired)
	assert.Empty(t, api.logoutTokens, "expiry never calls the server")
}

func TestLoadFromDurableStorage(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		info        string
		wantLoaded  bool
		wantProfile bool
		wantInfo    bool
	}{
		{name: "token and profile", token: "T1", info: `{"username":"alice","role":"user"}`, wantLoaded: true, wantProfile: true, wantInfo: true},
		{name: "token only", token: "T1", wantLoaded: true},
		{name: "malformed profile", token: "T1", info: `{not json`, wantLoaded: true},
		{name: "empty profile object", token: "T1", info: `{}`, wantLoaded: true},
		{name: "profile without token", info: `{"username":"alice","role":"user"}`},
		{name: "nothing stored"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, storage := newTestStore(&fakeAPI{})
			if tt.token != "" {
				require.NoError(t, storage.Set(KeyToken, tt.token))
			}
			if tt.info != "" {
				require.NoError(t, storage.Set(KeyUserInfo, tt.info))
			}

			assert.Equal(t, tt.wantLoaded, store.LoadFromDurableStorage())
			assert.Equal(t, tt.token, store.Token())
			assert.False(t, store.ProfileLoaded())

			_, ok := store.Profile()
			assert.Equal(t, tt.wantProfile, ok)
			_, ok, _ = storage.Get(KeyUserInfo)
			assert.Equal(t, tt.wantInfo, ok)
		})
	}
}

func TestLoadFromDurableStorageKeepsLiveSession(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	store, storage := newTestStore(api)
	_, err := store.Login(context.Background(), domain.Credentials{Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, storage.Set(KeyToken, "OTHER"))

	assert.False(t, store.LoadFromDurableStorage())
	assert.Equal(t, "T1", store.Token())
	assert.True(t, store.ProfileLoaded())
}

type blockingAPI struct {
	fakeAPI
	release chan struct{}
	started chan struct{}
}

func (b *blockingAPI) ProfileWithToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	close(b.started)
	<-b.release
	return b.fakeAPI.ProfileWithToken(ctx, token)
}

func TestEnsureProfileLosesToConcurrentLogout(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: fakeAPI{profile: alice()},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(KeyToken, "T1"))
	store := NewStore(api, storage)
	store.LoadFromDurableStorage()

	errc := make(chan error, 1)
	go func() {
		_, err := store.EnsureProfile(context.Background())
		errc <- err
	}()

	<-api.started
	store.Logout(context.Background())
	close(api.release)

	require.ErrorIs(t, <-errc, ErrSessionChanged)
	assert.Empty(t, store.Token())
	_, ok := store.Profile()
	assert.False(t, ok)
	_, ok, _ = storage.Get(KeyUserInfo)
	assert.False(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	store, _ := newTestStore(api)
	_, err := store.Login(context.Background(), domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	snap := store.Snapshot()
	require.NotNil(t, snap.Profile)
	snap.Profile.Username = "mallory"

	p, _ := store.Profile()
	assert.Equal(t, "alice", p.Username)
}

func TestLoginOverLiveSessionRetiresIt(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	store, _ := newTestStore(api)
	ctx := context.Background()
	_, err := store.Login(ctx, domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	var reasons []Reason
	store.OnLogout(func(r Reason) {
		reasons = append(reasons, r)
		assert.Equal(t, "T2", store.Token(), "hooks run after the new session is committed")
	})

	api.loginResult = &domain.LoginResult{Token: "T2", User: &domain.UserProfile{Username: "bob", Role: domain.RoleAdmin}}
	profile, err := store.Login(ctx, domain.Credentials{Username: "bob"})
	require.NoError(t, err)

	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, "T2", store.Token())
	assert.Equal(t, []string{"T1"}, api.logoutTokens)
	assert.Equal(t, []Reason{ReasonReplaced}, reasons)
}

func TestLoginWithSameTokenKeepsSession(t *testing.T) {
	api := &fakeAPI{loginResult: &domain.LoginResult{Token: "T1", User: alice()}}
	store, _ := newTestStore(api)
	ctx := context.Background()
	_, err := store.Login(ctx, domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	fired := 0
	store.OnLogout(func(Reason) { fired++ })
	_, err = store.Login(ctx, domain.Credentials{Username: "alice"})
	require.NoError(t, err)

	assert.Zero(t, fired)
	assert.Empty(t, api.logoutTokens)
}
