package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// ErrRedirectLoop is returned by Resolve when redirects do not settle.
var ErrRedirectLoop = errors.New("too many redirects")

// maxHops bounds Resolve. A legitimate chain is at most root → landing →
// 403/login, plus one spare.
const maxHops = 5

// Session is the view of the session store the guard needs.
type Session interface {
	Token() string
	Profile() (domain.UserProfile, bool)
	ProfileLoaded() bool
	LoadFromDurableStorage() bool
	EnsureProfile(ctx context.Context) (*domain.UserProfile, error)
}

// Action is the outcome of one navigation attempt.
type Action int

const (
	Admit Action = iota + 1
	Redirect
)

func (a Action) String() string {
	switch a {
	case Admit:
		return "admit"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is what the guard decided for one navigation attempt.
type Decision struct {
	Action Action
	// Target is the admitted path or the redirect destination.
	Target string
	// Route is set when Action is Admit.
	Route Route
	// Err carries the profile fetch failure that caused a redirect to login.
	Err error
}

// Guard runs the access checks for every navigation.
type Guard struct {
	session Session
}

// NewGuard creates a guard over session.
func NewGuard(session Session) *Guard {
	return &Guard{session: session}
}

// Navigate decides a single navigation attempt to path. The checks run in a
// fixed order: hydrate, refresh the profile, public routes, unknown paths,
// the root landing redirect, authentication, then roles.
func (g *Guard) Navigate(ctx context.Context, path string) Decision {
	path = Clean(path)

	if g.session.Token() == "" {
		g.session.LoadFromDurableStorage()
	}

	if g.session.Token() != "" && !g.session.ProfileLoaded() {
		if _, err := g.session.EnsureProfile(ctx); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("profile refresh failed, redirecting to login")
			return redirect(PathLogin, err)
		}
	}

	route, ok := Lookup(path)
	if ok && route.Public {
		return admit(route)
	}
	if !ok {
		return redirect(PathNotFound, nil)
	}

	token := g.session.Token()
	profile, _ := g.session.Profile()

	if route.Path == PathRoot && token != "" {
		return redirect(Landing(profile.Role), nil)
	}

	if route.RequiresAuth && token == "" {
		return redirect(PathLogin, nil)
	}

	if len(route.Roles) > 0 && !route.Allows(profile.Role) {
		return redirect(PathForbidden, nil)
	}

	return admit(route)
}

// Resolve follows redirects from path until a route is admitted. The returned
// decision is always an Admit; its Err keeps the last redirect cause seen.
func (g *Guard) Resolve(ctx context.Context, path string) (Decision, error) {
	var cause error
	target := path
	for hop := 0; hop < maxHops; hop++ {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		d := g.Navigate(ctx, target)
		if d.Err != nil {
			cause = d.Err
		}
		if d.Action == Admit {
			d.Err = cause
			return d, nil
		}
		target = d.Target
	}
	return Decision{}, fmt.Errorf("router.Resolve %s: %w", path, ErrRedirectLoop)
}

func admit(r Route) Decision {
	return Decision{Action: Admit, Target: r.Path, Route: r}
}

func redirect(target string, err error) Decision {
	return Decision{Action: Redirect, Target: target, Err: err}
}
