package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/core/domain"
)

func runErrorHandler(method string, err error) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, "/resources/r1", nil)
	rec := httptest.NewRecorder()
	NewHTTPErrorHandler(zerolog.Nop())(err, e.NewContext(req, rec))
	return rec
}

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get resource r1: %w", domain.ErrNotFound), http.StatusNotFound},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"invalid state", domain.ErrInvalidState, http.StatusBadRequest},
		{"malformed token", domain.ErrMalformedToken, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid user state", domain.ErrInvalidUserState, http.StatusForbidden},
		{"cascade failure", &domain.CascadeError{Step: "push_aggregate", Target: "r1", LocalCommitted: true, Err: domain.ErrNotFound}, http.StatusNotFound},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing token"), http.StatusUnauthorized},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := runErrorHandler(http.MethodGet, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tc.want || resp.Error != http.StatusText(tc.want) || resp.Path != "/resources/r1" || resp.Timestamp == "" {
				t.Errorf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	rec := runErrorHandler(http.MethodGet, errors.New("dial tcp 10.0.0.3:27017: refused"))
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_CredentialsMessageIsGeneric(t *testing.T) {
	rec := runErrorHandler(http.MethodPost, fmt.Errorf("login 1000000001: %w", domain.ErrInvalidCredentials))
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "invalid credentials" {
		t.Errorf("expected a generic message, got %q", resp.Message)
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	rec := runErrorHandler(http.MethodHead, domain.ErrNotFound)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}
