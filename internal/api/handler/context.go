package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
)

// principal returns the identity attached by the Identity middleware. The
// zero value means the caller is anonymous.
func principal(c echo.Context) domain.Principal {
	p, _ := domain.PrincipalFromContext(c.Request().Context())
	return p
}

// requirePrincipal performs a fast-fail check before any service call: routes
// that act on behalf of a subject need both trusted attributes.
func requirePrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bearer extracts the raw token from the Authorization header.
func bearer(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
