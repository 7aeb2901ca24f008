package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/api/metrics"
	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// EdgeConfig configures EdgeAuth.
type EdgeConfig struct {
	// Verifier checks signature and expiry. Required.
	Verifier ports.TokenVerifier
	// Active, when set, rejects tokens that were revoked by logout.
	Active ports.ActiveChecker
	// KeepAuthorization reports whether the raw Authorization header may be
	// forwarded for this request. When nil the header is always stripped.
	KeepAuthorization func(c echo.Context) bool
	Log               zerolog.Logger
}

// EdgeAuth validates the bearer token at the outer edge and replaces it with
// the trusted identity headers. Requests without a bearer token, including
// those using another Authorization scheme, pass through as anonymous.
// Client supplied identity headers are always dropped.
func EdgeAuth(cfg EdgeConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			req.Header.Del(domain.HeaderSubjectID)
			req.Header.Del(domain.HeaderRole)

			authHeader := req.Header.Get(echo.HeaderAuthorization)
			if !isBearer(authHeader) {
				return next(c)
			}

			token, _ := bearerToken(authHeader)
			if token == "" || !cfg.Verifier.IsValid(token) {
				metrics.EdgeRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if cfg.Active != nil && !cfg.Active.IsActive(req.Context(), token) {
				metrics.EdgeRejectionsTotal.WithLabelValues("revoked").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "token is no longer active")
			}

			claims, err := cfg.Verifier.Parse(token)
			if err != nil {
				metrics.EdgeRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			req.Header.Set(domain.HeaderSubjectID, claims.SubjectID)
			req.Header.Set(domain.HeaderRole, string(claims.Role))
			if cfg.KeepAuthorization == nil || !cfg.KeepAuthorization(c) {
				req.Header.Del(echo.HeaderAuthorization)
			}

			cfg.Log.Debug().
				Str("subject_id", claims.SubjectID).
				Str("role", string(claims.Role)).
				Str("path", req.URL.Path).
				Msg("edge identity stamped")

			return next(c)
		}
	}
}

// KeepAuthorizationFor returns a KeepAuthorization predicate that matches the
// given path prefixes.
func KeepAuthorizationFor(prefixes ...string) func(c echo.Context) bool {
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}

// isBearer reports whether header uses the Bearer scheme, with or without a
// token after it.
func isBearer(header string) bool {
	scheme, _, _ := strings.Cut(strings.TrimSpace(header), " ")
	return strings.EqualFold(scheme, "bearer")
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
