package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// IdentityResolver builds the request principal from an interior request.
// It is the single place where an interior service decides what to trust.
type IdentityResolver interface {
	Resolve(c echo.Context) (domain.Principal, bool)
}

// HeaderTrust trusts the identity headers stamped by the edge without any
// verification. Both headers must be present.
type HeaderTrust struct{}

func (HeaderTrust) Resolve(c echo.Context) (domain.Principal, bool) {
	p := domain.Principal{
		SubjectID: strings.TrimSpace(c.Request().Header.Get(domain.HeaderSubjectID)),
		Role:      domain.Role(strings.TrimSpace(c.Request().Header.Get(domain.HeaderRole))),
	}
	return p, p.Authenticated()
}

// BearerTrust re-verifies the bearer token instead of trusting headers. It
// is an alternative resolver for deployments without a private network.
type BearerTrust struct {
	Verifier ports.TokenVerifier
}

func (b BearerTrust) Resolve(c echo.Context) (domain.Principal, bool) {
	token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok || !b.Verifier.IsValid(token) {
		return domain.Principal{}, false
	}
	claims, err := b.Verifier.Parse(token)
	if err != nil {
		return domain.Principal{}, false
	}
	p := domain.Principal{SubjectID: claims.SubjectID, Role: claims.Role}
	return p, p.Authenticated()
}

// Identity attaches the principal resolved by r to the request context,
// unless one is already set. Requests that resolve to nothing stay anonymous.
func Identity(r IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := domain.PrincipalFromContext(ctx); ok {
				return next(c)
			}
			if p, ok := r.Resolve(c); ok {
				c.SetRequest(c.Request().WithContext(domain.ContextWithPrincipal(ctx, p)))
			}
			return next(c)
		}
	}
}
