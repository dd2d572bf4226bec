// Package domain holds the small shared vocabulary of the gateway: the
// authenticated principal and the operation kinds it may attempt.
package domain

// Role is the coarse access level attached to a principal by the external
// authentication service.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one the gateway understands.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal is the authenticated caller attached to a request. The gateway
// never persists principals; it only reads the one on the current context.
type Principal struct {
	Subject string
	Role    Role
}

// IsZero reports whether no principal was attached to the request.
func (p Principal) IsZero() bool {
	return p.Subject == "" && p.Role == ""
}
