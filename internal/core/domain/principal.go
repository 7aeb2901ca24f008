package domain

import (
	"context"
	"strings"
)

// Role is the single authorization role carried by every identity.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleOwner Role = "ROLE_OWNER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Principal is the identity context of a request: who is calling and with
// which role. The zero value is the anonymous caller.
type Principal struct {
	SubjectID string
	Role      Role
}

// Authenticated reports whether both attributes are present. A principal
// with only one of them set is treated as anonymous.
func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.SubjectID) != "" && p.Role != ""
}

// IsAdmin reports whether the role claim equals the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Trusted attribute headers stamped by the edge and read by interior services.
const (
	HeaderSubjectID = "X-Subject-Id"
	HeaderRole      = "X-Role"
)

type principalContextKey struct{}

// ContextWithPrincipal attaches the request principal to ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal set by the identity filter.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok || !p.Authenticated() {
		return Principal{}, false
	}
	return p, true
}
