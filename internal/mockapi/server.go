// Package mockapi is an in-memory development backend that speaks the same
// envelope protocol as the production booking API.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/internal/logger"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// Server holds the fixture dataset. All handlers share it under one mutex.
type Server struct {
	log zerolog.Logger
	now func() time.Time

	mu            sync.Mutex
	sessions      map[string]domain.UserProfile
	venues        []domain.Venue
	materials     []domain.Material
	applications  []domain.Application
	users         []domain.User
	notifications map[string][]domain.Notification
	threshold     int
	nextID        int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock overrides the time source used for notifications and trends.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server seeded with the fixture dataset.
func New(opts ...Option) *Server {
	s := &Server{
		log:           zerolog.Nop(),
		now:           time.Now,
		sessions:      make(map[string]domain.UserProfile),
		venues:        defaultVenues(),
		materials:     defaultMaterials(),
		applications:  defaultApplications(),
		users:         defaultUsers(),
		notifications: make(map[string][]domain.Notification),
		threshold:     defaultThreshold,
		nextID:        100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the API routes, rooted at "/".
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.Requests(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/profile", s.handleProfile)

		r.With(s.requireRoles(domain.RoleUser, domain.RoleTeacher)).Post("/applications", s.handleCreateApplication)
		r.With(s.requireRoles(domain.RoleAdmin, domain.RoleReviewer)).Get("/applications", s.handleListApplications)
		r.With(s.requireRoles(domain.RoleUser, domain.RoleTeacher)).Get("/applications/my", s.handleMyApplications)
		r.Get("/applications/{id}", s.handleGetApplication)
		r.With(s.requireRoles(domain.RoleUser, domain.RoleTeacher)).Put("/applications/{id}/cancel", s.handleCancelApplication)
		r.With(s.requireRoles(domain.RoleReviewer, domain.RoleAdmin)).Put("/applications/{id}/approve", s.handleApprove)
		r.With(s.requireRoles(domain.RoleReviewer, domain.RoleAdmin)).Put("/applications/{id}/reject", s.handleReject)
		r.With(s.requireRoles(domain.RoleReviewer, domain.RoleAdmin)).Get("/approvals/pending", s.handlePendingApprovals)

		r.Get("/venues", s.handleListVenues)
		r.Get("/venues/available", s.handleAvailableVenues)
		r.Get("/venues/{id}/bookings", s.handleVenueBookings)
		r.With(s.requireRoles(domain.RoleAdmin)).Post("/venues", s.handleCreateVenue)
		r.With(s.requireRoles(domain.RoleAdmin)).Put("/venues/{id}", s.handleUpdateVenue)
		r.With(s.requireRoles(domain.RoleAdmin)).Delete("/venues/{id}", s.handleDeleteVenue)

		r.Get("/materials", s.handleListMaterials)
		r.Get("/materials/alert-threshold", s.handleGetThreshold)
		r.With(s.requireRoles(domain.RoleAdmin)).Put("/materials/alert-threshold", s.handleSetThreshold)
		r.With(s.requireRoles(domain.RoleAdmin)).Post("/materials", s.handleCreateMaterial)
		r.With(s.requireRoles(domain.RoleAdmin)).Put("/materials/{id}", s.handleUpdateMaterial)
		r.With(s.requireRoles(domain.RoleAdmin)).Delete("/materials/{id}", s.handleDeleteMaterial)

		r.With(s.requireRoles(domain.RoleAdmin)).Get("/users", s.handleListUsers)

		r.With(s.requireRoles(domain.RoleAdmin, domain.RoleReviewer)).Get("/dashboard/stats", s.handleStats)
		r.With(s.requireRoles(domain.RoleAdmin, domain.RoleReviewer)).Get("/dashboard/trends", s.handleTrends)

		r.Get("/notifications", s.handleListNotifications)
		r.Put("/notifications/read-all", s.handleReadAll)
		r.Put("/notifications/{id}/read", s.handleReadNotification)
	})

	return r
}

// Auth middleware

type profileKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		s.mu.Lock()
		profile, ok := s.sessions[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), profileKey{}, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := caller(r.Context()).Role
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func caller(ctx context.Context) domain.UserProfile {
	p, _ := ctx.Value(profileKey{}).(domain.UserProfile)
	return p
}

// mockIdentity maps a login name to its fixture role and token.
func mockIdentity(username string) (domain.UserProfile, string) {
	var role domain.Role
	switch username {
	case "admin":
		role = domain.RoleAdmin
	case "reviewer":
		role = domain.RoleReviewer
	case "teacher":
		role = domain.RoleTeacher
	default:
		role = domain.RoleUser
		if username == "" {
			username = "testuser"
		}
	}
	return domain.UserProfile{Username: username, Role: role}, fmt.Sprintf("fake-%s-token", role)
}

// Helpers

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeOK wraps data in a success envelope.
func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: http.StatusOK, Message: "success", Data: data})
}

// writeFailure reports a business-rule rejection: HTTP 200 with a non-success
// envelope code.
func writeFailure(w http.ResponseWriter, code int, message string) {
	writeJSON(w, http.StatusOK, envelope{Code: code, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Code: status, Message: message})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Unparseable times never overlap.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, ok1 := datetime.Parse(aStart)
	ae, ok2 := datetime.Parse(aEnd)
	bs, ok3 := datetime.Parse(bStart)
	be, ok4 := datetime.Parse(bEnd)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return as.Before(be) && bs.Before(ae)
}
