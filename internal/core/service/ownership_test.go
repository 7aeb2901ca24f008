package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

func newTestOwnership(validator OwnerValidator) *Ownership {
	owners := map[string]string{"r1": asOwner.SubjectID, "orphan": ""}
	lookup := func(_ context.Context, id string) (string, error) {
		o, ok := owners[id]
		if !ok {
			return "", domain.ErrNotFound
		}
		return o, nil
	}
	return NewOwnership("resource", lookup, validator, nopLog)
}

func TestOwnership_IsOwner(t *testing.T) {
	ctx := context.Background()
	o := newTestOwnership(nil)

	tests := []struct {
		name   string
		id     string
		caller string
		want   bool
	}{
		{"owner", "r1", asOwner.SubjectID, true},
		{"someone else", "r1", asOther.SubjectID, false},
		{"unknown instance", "missing", asOwner.SubjectID, false},
		{"instance without owner", "orphan", asOwner.SubjectID, false},
		{"blank caller", "r1", "", false},
		{"blank id", "", asOwner.SubjectID, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := o.IsOwner(ctx, tc.id, tc.caller); got != tc.want {
				t.Errorf("IsOwner(%q, %q) = %v, want %v", tc.id, tc.caller, got, tc.want)
			}
		})
	}
}

func TestOwnership_IsOwnerWithoutLookup(t *testing.T) {
	o := NewOwnership("resource", nil, nil, nopLog)
	if o.IsOwner(context.Background(), "r1", asOwner.SubjectID) {
		t.Error("expected false without a lookup")
	}
}

func TestOwnership_RequireOwnerOrAdmin(t *testing.T) {
	o := newTestOwnership(nil)

	if err := o.RequireOwnerOrAdmin(asOwner.SubjectID, asOwner); err != nil {
		t.Errorf("owner: unexpected error %v", err)
	}
	if err := o.RequireOwnerOrAdmin(asOwner.SubjectID, asAdmin); err != nil {
		t.Errorf("admin: unexpected error %v", err)
	}
	if err := o.RequireOwnerOrAdmin("", asAdmin); err != nil {
		t.Errorf("admin with blank owner: unexpected error %v", err)
	}
	for _, p := range []domain.Principal{asOther, asUser, anonymous} {
		if err := o.RequireOwnerOrAdmin(asOwner.SubjectID, p); !errors.Is(err, domain.ErrAccessDenied) {
			t.Errorf("%+v: expected ErrAccessDenied, got %v", p, err)
		}
	}
	if err := o.RequireOwnerOrAdmin("", anonymous); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("blank owner and anonymous caller: expected ErrAccessDenied, got %v", err)
	}
}

func TestOwnership_RequireAdmin(t *testing.T) {
	o := newTestOwnership(nil)
	if err := o.RequireAdmin(asAdmin); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !o.IsAdmin(asAdmin) || o.IsAdmin(asOwner) {
		t.Error("IsAdmin must follow the role claim")
	}
	if err := o.RequireAdmin(asOwner); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestOwnership_RequireRemoteOwnerValid(t *testing.T) {
	ctx := context.Background()
	profiles := newStubProfiles()
	profiles.owners[asOwner.SubjectID] = &ports.OwnerValidation{Valid: true}
	profiles.owners[asUser.SubjectID] = &ports.OwnerValidation{Valid: false, Reason: "user is not a resource owner"}
	o := newTestOwnership(profiles)

	if err := o.RequireRemoteOwnerValid(ctx, asOwner.SubjectID); err != nil {
		t.Fatalf("valid owner: unexpected error %v", err)
	}

	tests := []struct {
		name  string
		owner string
		want  error
	}{
		{"blank owner", " ", domain.ErrAccessDenied},
		{"rejected candidate", asUser.SubjectID, domain.ErrNotFound},
		{"unknown candidate", "9999999999", domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := o.RequireRemoteOwnerValid(ctx, tc.owner); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestOwnership_RequireRemoteOwnerValid_RejectionKeepsReason(t *testing.T) {
	profiles := newStubProfiles()
	profiles.owners[asUser.SubjectID] = &ports.OwnerValidation{Valid: false, Reason: "user is not a resource owner"}
	o := newTestOwnership(profiles)

	err := o.RequireRemoteOwnerValid(context.Background(), asUser.SubjectID)
	if !errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrNotFound only, got %v", err)
	}
	if !strings.Contains(err.Error(), "user is not a resource owner") {
		t.Errorf("expected the remote reason in %q", err.Error())
	}
}

func TestOwnership_RequireRemoteOwnerValid_NoValidator(t *testing.T) {
	o := newTestOwnership(nil)
	if err := o.RequireRemoteOwnerValid(context.Background(), asOwner.SubjectID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOwnership_RequireRemoteOwnerValid_TransportFailure(t *testing.T) {
	profiles := newStubProfiles()
	profiles.validateErr = errors.New("connection refused")
	o := newTestOwnership(profiles)

	err := o.RequireRemoteOwnerValid(context.Background(), asOwner.SubjectID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
