// Package session holds the signed-in user's credential token and profile and
// keeps them mirrored to durable storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/naveenspark/venuebook/pkg/domain"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session when none exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionChanged means the session was replaced or cleared while a
	// request for it was in flight.
	ErrSessionChanged = errors.New("session changed during request")
	// ErrEmptyProfile means the server returned a profile with no identity.
	ErrEmptyProfile = errors.New("server returned an empty profile")
)

// API is the subset of the booking API the store drives.
type API interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	ProfileWithToken(ctx context.Context, token string) (*domain.UserProfile, error)
	Logout(ctx context.Context, token string) error
}

// Reason says why a session ended.
type Reason int

const (
	// ReasonLogout is an explicit logout.
	ReasonLogout Reason = iota + 1
	// ReasonExpired is a 401 for the current token.
	ReasonExpired
	// ReasonProfileFailed is a failed profile refresh.
	ReasonProfileFailed
	// ReasonReplaced is a login that took over from a different live session.
	ReasonReplaced
)

func (r Reason) String() string {
	switch r {
	case ReasonLogout:
		return "logout"
	case ReasonExpired:
		return "expired"
	case ReasonProfileFailed:
		return "profile_failed"
	case ReasonReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Session is a point-in-time copy of the store state.
type Session struct {
	Token         string
	Profile       *domain.UserProfile
	ProfileLoaded bool
}

// Store owns the session. It is safe for concurrent use: network calls run
// outside the lock and every commit re-checks the token it started with, so a
// logout that lands mid-request wins.
type Store struct {
	api     API
	storage Storage

	mu            sync.Mutex
	token         string
	profile       *domain.UserProfile
	profileLoaded bool

	hookMu sync.Mutex
	hooks  []func(Reason)
}

// NewStore creates an empty store. Call LoadFromDurableStorage to recover a
// previous session.
func NewStore(api API, storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{api: api, storage: storage}
}

// OnLogout registers fn to run after every logout, explicit or forced. Hooks
// drop cached state and redirect to the login view.
func (s *Store) OnLogout(fn func(Reason)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) fire(r Reason) {
	s.hookMu.Lock()
	hooks := make([]func(Reason), len(s.hooks))
	copy(hooks, s.hooks)
	s.hookMu.Unlock()

	for _, fn := range hooks {
		fn(r)
	}
}

// Token returns the current credential token, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Profile returns the current profile snapshot. It may be a stale copy
// recovered from storage until ProfileLoaded reports true.
func (s *Store) Profile() (domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return domain.UserProfile{}, false
	}
	return *s.profile, true
}

// ProfileLoaded reports whether the profile was confirmed by the server.
func (s *Store) ProfileLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLoaded
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Session{Token: s.token, ProfileLoaded: s.profileLoaded}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

// Login authenticates and commits the new session to memory and storage in
// one step. API errors are returned untouched and leave the previous state
// as it was. When a different session was live, it is terminated on the
// server (best-effort) and the logout hooks run with ReasonReplaced.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (domain.UserProfile, error) {
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return domain.UserProfile{}, err
	}

	profile := res.User
	if profile == nil || profile.Empty() {
		profile, err = s.api.ProfileWithToken(ctx, res.Token)
		if err != nil {
			return domain.UserProfile{}, err
		}
		if profile.Empty() {
			return domain.UserProfile{}, fmt.Errorf("session.Login: %w", ErrEmptyProfile)
		}
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("session.Login: encode profile: %w", err)
	}

	s.mu.Lock()
	prev := s.token
	if err := s.persistLocked(res.Token, string(encoded)); err != nil {
		s.mu.Unlock()
		return domain.UserProfile{}, fmt.Errorf("session.Login: %w", err)
	}
	p := *profile
	s.token = res.Token
	s.profile = &p
	s.profileLoaded = true
	s.mu.Unlock()

	log.Info().Str("username", p.Username).Str("role", string(p.Role)).Msg("logged in")
	if prev != "" && prev != res.Token {
		s.retire(ctx, prev)
	}
	return p, nil
}

// retire ends a session that a login replaced. Local state already belongs
// to the new session; only the server side and the hooks are left.
func (s *Store) retire(ctx context.Context, token string) {
	if err := s.api.Logout(ctx, token); err != nil {
		log.Debug().Err(err).Msg("remote logout of replaced session failed")
	}
	log.Info().Stringer("reason", ReasonReplaced).Msg("session ended")
	s.fire(ReasonReplaced)
}

// persistLocked writes both keys, restoring the previous values if either
// write fails.
func (s *Store) persistLocked(token, userInfo string) error {
	prevToken, hadToken, _ := s.storage.Get(KeyToken)
	prevInfo, hadInfo, _ := s.storage.Get(KeyUserInfo)
	restore := func() {
		if hadToken {
			s.storage.Set(KeyToken, prevToken) //nolint:errcheck
		} else {
			s.storage.Delete(KeyToken) //nolint:errcheck
		}
		if hadInfo {
			s.storage.Set(KeyUserInfo, prevInfo) //nolint:errcheck
		} else {
			s.storage.Delete(KeyUserInfo) //nolint:errcheck
		}
	}

	if err := s.storage.Set(KeyToken, token); err != nil {
		restore()
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(KeyUserInfo, userInfo); err != nil {
		restore()
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

// EnsureProfile returns the confirmed profile, fetching it when the session
// has a token but no confirmed profile. With no token it returns nil, nil
// without any network call. A failed fetch ends the session locally and the
// error is returned.
func (s *Store) EnsureProfile(ctx context.Context) (*domain.UserProfile, error) {
	s.mu.Lock()
	token := s.token
	if token == "" {
		s.mu.Unlock()
		return nil, nil
	}
	if s.profileLoaded && s.profile != nil {
		p := *s.profile
		s.mu.Unlock()
		return &p, nil
	}
	s.mu.Unlock()

	profile, err := s.api.ProfileWithToken(ctx, token)
	if err == nil && profile.Empty() {
		err = fmt.Errorf("session.EnsureProfile: %w", ErrEmptyProfile)
	}
	if err != nil {
		log.Warn().Err(err).Msg("profile refresh failed, ending session")
		s.endSession(token, ReasonProfileFailed)
		return nil, err
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("session.EnsureProfile: encode profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return nil, fmt.Errorf("session.EnsureProfile: %w", ErrSessionChanged)
	}
	if err := s.storage.Set(KeyUserInfo, string(encoded)); err != nil {
		log.Error().Err(err).Msg("persist refreshed profile")
	}
	p := *profile
	s.profile = &p
	s.profileLoaded = true
	return &p, nil
}

// Logout ends the session. The remote session-termination call is
// best-effort; its failure is logged and swallowed. Local state and storage
// are always cleared and the logout hooks always run. Safe to call repeatedly.
func (s *Store) Logout(ctx context.Context) {
	token := s.Token()
	if token != "" && s.api != nil {
		if err := s.api.Logout(ctx, token); err != nil {
			log.Debug().Err(err).Msg("remote logout failed")
		}
	}

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()

	log.Info().Msg("logged out")
	s.fire(ReasonLogout)
}

// Expire is the forced-logout path for a rejected credential. It ignores
// tokens other than the current one so a late 401 cannot end a newer session.
func (s *Store) Expire(token string) {
	s.endSession(token, ReasonExpired)
}

func (s *Store) endSession(token string, reason Reason) {
	s.mu.Lock()
	if token == "" || s.token != token {
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	s.mu.Unlock()

	log.Info().Stringer("reason", reason).Msg("session ended")
	s.fire(reason)
}

func (s *Store) clearLocked() {
	s.token = ""
	s.profile = nil
	s.profileLoaded = false
	for _, key := range []string{KeyToken, KeyUserInfo} {
		if err := s.storage.Delete(key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("clear durable session")
		}
	}
}

// LoadFromDurableStorage recovers a persisted session when memory holds none.
// A malformed stored profile is discarded and a profile without a token is
// removed. The recovered profile is not marked loaded, so the next
// EnsureProfile confirms it with the server. Reports whether a token was
// recovered.
func (s *Store) LoadFromDurableStorage() bool {
	token, hasToken, err := s.storage.Get(KeyToken)
	if err != nil {
		log.Warn().Err(err).Msg("read stored token")
		return false
	}
	info, hasInfo, err := s.storage.Get(KeyUserInfo)
	if err != nil {
		log.Warn().Err(err).Msg("read stored profile")
		hasInfo = false
	}

	if !hasToken || token == "" {
		if hasInfo {
			s.storage.Delete(KeyUserInfo) //nolint:errcheck // orphaned profile
		}
		return false
	}

	var profile *domain.UserProfile
	if hasInfo {
		var decoded domain.UserProfile
		if err := json.Unmarshal([]byte(info), &decoded); err != nil || decoded.Empty() {
			log.Warn().Msg("discarding malformed stored profile")
			s.storage.Delete(KeyUserInfo) //nolint:errcheck
		} else {
			profile = &decoded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return false
	}
	s.token = token
	s.profile = profile
	s.profileLoaded = false
	return true
}
