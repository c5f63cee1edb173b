// Package router holds the route table and the access guard that decides, for
// every navigation, whether to admit the destination or redirect.
package router

import (
	"strings"

	"github.com/naveenspark/venuebook/pkg/domain"
)

// Route paths.
const (
	PathRoot           = "/"
	PathLogin          = "/login"
	PathForbidden      = "/403"
	PathNotFound       = "/404"
	PathDashboard      = "/dashboard"
	PathApplyNew       = "/apply/new"
	PathMyApplications = "/apply/my-list"
	PathCalendar       = "/venue-calendar"
	PathApprovals      = "/approval/list"
	PathVenues         = "/manage/venues"
	PathMaterials      = "/manage/materials"
	PathUsers          = "/manage/users"
	PathNotifications  = "/notifications"
	PathProfile        = "/profile"
)

// Route is one entry of the route table.
type Route struct {
	Path  string
	Title string

	// Public routes are admitted without a session.
	Public bool
	// RequiresAuth routes need a token.
	RequiresAuth bool
	// Roles, when non-empty, lists the roles admitted. Membership is exact.
	Roles []domain.Role
	// Hidden routes are reachable but never listed in the menu.
	Hidden bool
}

// Allows reports whether role may open the route.
func (r Route) Allows(role domain.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var allRoles = []domain.Role{domain.RoleAdmin, domain.RoleReviewer, domain.RoleUser, domain.RoleTeacher}

// Routes is the route table in menu order.
var Routes = []Route{
	{Path: PathLogin, Title: "Login", Public: true},
	{Path: PathForbidden, Title: "Forbidden", Public: true},
	{Path: PathNotFound, Title: "Not Found", Public: true},
	{Path: PathRoot, Title: "Home", RequiresAuth: true, Hidden: true},
	{Path: PathDashboard, Title: "Dashboard", RequiresAuth: true, Roles: []domain.Role{domain.RoleAdmin, domain.RoleReviewer}},
	{Path: PathApplyNew, Title: "New Application", RequiresAuth: true, Roles: []domain.Role{domain.RoleUser, domain.RoleTeacher}},
	{Path: PathMyApplications, Title: "My Applications", RequiresAuth: true, Roles: []domain.Role{domain.RoleUser, domain.RoleTeacher}},
	{Path: PathCalendar, Title: "Venue Calendar", RequiresAuth: true, Roles: []domain.Role{domain.RoleUser, domain.RoleTeacher}},
	{Path: PathApprovals, Title: "Approvals", RequiresAuth: true, Roles: []domain.Role{domain.RoleReviewer, domain.RoleAdmin}},
	{Path: PathVenues, Title: "Venues", RequiresAuth: true, Roles: []domain.Role{domain.RoleAdmin}},
	{Path: PathMaterials, Title: "Materials", RequiresAuth: true, Roles: []domain.Role{domain.RoleAdmin}},
	{Path: PathUsers, Title: "Users", RequiresAuth: true, Roles: []domain.Role{domain.RoleAdmin}},
	{Path: PathNotifications, Title: "Notifications", RequiresAuth: true, Roles: allRoles},
	{Path: PathProfile, Title: "Profile", RequiresAuth: true, Roles: allRoles, Hidden: true},
}

// Clean normalises a navigation target: empty means root, query strings and
// fragments are dropped, and trailing slashes are removed.
func Clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// Lookup finds the route for path.
func Lookup(path string) (Route, bool) {
	path = Clean(path)
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Menu lists the routes role can open from the menu, in table order.
func Menu(role domain.Role) []Route {
	var out []Route
	for _, r := range Routes {
		if r.Public || r.Hidden {
			continue
		}
		if len(r.Roles) > 0 && r.Allows(role) {
			out = append(out, r)
		}
	}
	return out
}

// Landing is where the root path sends a signed-in role.
func Landing(role domain.Role) string {
	switch role {
	case domain.RoleAdmin, domain.RoleReviewer:
		return PathDashboard
	default:
		return PathCalendar
	}
}
