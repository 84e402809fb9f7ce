package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleUser   Role = "user"
)

// In reports whether r is one of allowed. Both the page gatekeeper and the
// API access gate decide role membership through this function.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Home is the landing page for a signed-in principal, or "" when the role has none.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleAuthor:
		return "/profile"
	default:
		return ""
	}
}
