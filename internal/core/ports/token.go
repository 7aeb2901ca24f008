package ports

import (
	"context"
	"time"

	"github.com/venuehub/platform/internal/core/domain"
)

// TokenClaims is what a verified bearer token says about its holder.
type TokenClaims struct {
	SubjectID string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenStore tracks the tokens that are currently live. A blank token is a
// no-op for Activate and Revoke and never active. Implementations do not
// surface errors: a store that cannot answer reports the token as inactive.
type TokenStore interface {
	Activate(ctx context.Context, token string, ttl time.Duration)
	Revoke(ctx context.Context, token string)
	IsActive(ctx context.Context, token string) bool
}

// TokenVerifier is the read side of the token service used at the edge.
type TokenVerifier interface {
	Parse(token string) (TokenClaims, error)
	IsValid(token string) bool
}

// ActiveChecker answers whether a token is still live. It is satisfied by the
// token service itself and by the remote introspection client.
type ActiveChecker interface {
	IsActive(ctx context.Context, token string) bool
}

// TokenService is the full Identity Token Service.
type TokenService interface {
	TokenVerifier
	ActiveChecker
	Issue(subjectID string, role domain.Role) (string, error)
	Activate(ctx context.Context, token string)
	Revoke(ctx context.Context, token string)
}
