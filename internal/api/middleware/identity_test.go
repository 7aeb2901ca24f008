package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/core/domain"
)

func resolveWith(t *testing.T, r IdentityResolver, headers map[string]string) (domain.Principal, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var (
		got domain.Principal
		ok  bool
	)
	err := Identity(r)(func(c echo.Context) error {
		got, ok = domain.PrincipalFromContext(c.Request().Context())
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got, ok
}

func TestHeaderTrust_RequiresBothAttributes(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{"none", nil, false},
		{"subject only", map[string]string{domain.HeaderSubjectID: "0000000001"}, false},
		{"role only", map[string]string{domain.HeaderRole: "ROLE_USER"}, false},
		{"both", map[string]string{domain.HeaderSubjectID: "0000000001", domain.HeaderRole: "ROLE_USER"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := resolveWith(t, HeaderTrust{}, tt.headers)
			if ok != tt.want {
				t.Fatalf("expected authenticated=%v, got %v (%+v)", tt.want, ok, p)
			}
			if ok && (p.SubjectID != "0000000001" || p.Role != domain.RoleUser) {
				t.Fatalf("unexpected principal %+v", p)
			}
		})
	}
}

func TestIdentity_KeepsExistingPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(domain.HeaderSubjectID, "0000000009")
	req.Header.Set(domain.HeaderRole, "ROLE_ADMIN")
	existing := domain.Principal{SubjectID: "0000000001", Role: domain.RoleUser}
	req = req.WithContext(domain.ContextWithPrincipal(req.Context(), existing))
	c := e.NewContext(req, httptest.NewRecorder())

	_ = Identity(HeaderTrust{})(func(c echo.Context) error {
		got, _ := domain.PrincipalFromContext(c.Request().Context())
		if got != existing {
			t.Fatalf("expected existing principal kept, got %+v", got)
		}
		return nil
	})(c)
}

func TestBearerTrust(t *testing.T) {
	r := BearerTrust{Verifier: newVerifier()}

	p, ok := resolveWith(t, r, map[string]string{"Authorization": "Bearer good"})
	if !ok || p.SubjectID != "0000000001" || p.Role != domain.RoleOwner {
		t.Fatalf("expected principal from token, got %+v %v", p, ok)
	}

	if _, ok := resolveWith(t, r, map[string]string{
		"Authorization":        "Bearer tampered",
		domain.HeaderSubjectID: "0000000001",
		domain.HeaderRole:      "ROLE_ADMIN",
	}); ok {
		t.Fatalf("bearer trust must ignore headers")
	}
}
