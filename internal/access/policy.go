// Package access evaluates a principal's role against the operation being
// attempted. The policy is one enumerated table evaluated once per request so
// it stays auditable and testable independent of routing code.
package access

import (
	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
)

type rule struct {
	op   domain.Operation
	role domain.Role
}

// Policy holds the authorization table. Absence of a (operation, role) pair
// means denied; there is no fallback.
type Policy struct {
	allowed map[rule]struct{}
}

// NewPolicy builds the gateway's authorization table:
//   - query and retrieve: user or admin
//   - store and administration: admin only
func NewPolicy() *Policy {
	p := &Policy{allowed: make(map[rule]struct{})}
	p.allow(domain.OpQuery, domain.RoleUser)
	p.allow(domain.OpQuery, domain.RoleAdmin)
	p.allow(domain.OpRetrieve, domain.RoleUser)
	p.allow(domain.OpRetrieve, domain.RoleAdmin)
	p.allow(domain.OpStore, domain.RoleAdmin)
	p.allow(domain.OpAdmin, domain.RoleAdmin)
	return p
}

func (p *Policy) allow(op domain.Operation, role domain.Role) {
	p.allowed[rule{op: op, role: role}] = struct{}{}
}

// Authorize returns nil when the principal may attempt the operation, or a
// forbidden error otherwise. Unauthenticated principals are rejected with
// unauthorized so callers can distinguish the two.
func (p *Policy) Authorize(principal domain.Principal, op domain.Operation) error {
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if _, ok := p.allowed[rule{op: op, role: principal.Role}]; !ok {
		return dErrors.New(dErrors.CodeForbidden, string(op)+" requires a role with more privileges")
	}
	return nil
}
