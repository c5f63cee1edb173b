package domain

// Role drives route admission. Membership checks are exact; there is no
// hierarchy between roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReviewer Role = "reviewer"
	RoleUser     Role = "user"
	RoleTeacher  Role = "teacher"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleReviewer, RoleUser, RoleTeacher}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleReviewer:
		return "Reviewer"
	case RoleUser:
		return "User"
	case RoleTeacher:
		return "Teacher"
	default:
		return string(r)
	}
}

// UserProfile is the authenticated caller's identity snapshot. It is replaced
// wholesale on refresh, never merged.
type UserProfile struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Empty reports whether the profile carries no identity.
func (p UserProfile) Empty() bool {
	return p.Username == "" && p.Role == ""
}

// Credentials is the auth/login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the unwrapped auth/login response.
type LoginResult struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
}

// User is an account as listed by the admin user view.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
}
