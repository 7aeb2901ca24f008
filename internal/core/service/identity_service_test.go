package service

import (
	"context"
	"errors"
	"testing"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
	"github.com/venuehub/platform/internal/infrastructure/db/memory"
)

type identityFixture struct {
	svc      *IdentityService
	repo     *memory.IdentityRepository
	tokens   *TokenService
	profiles *stubProfiles
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	f := &identityFixture{
		repo:     memory.NewIdentityRepository(),
		tokens:   newTokens(),
		profiles: newStubProfiles(),
	}
	f.svc = NewIdentityService(f.repo, f.tokens, f.profiles, NewCoordinator(nopLog), nopLog)
	if err := f.svc.SeedAdmin(context.Background(), "admin", "admin-pass"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return f
}

func (f *identityFixture) register(t *testing.T, password string) *domain.Identity {
	t.Helper()
	id, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Mobile: "5550001", Password: password,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return id
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestIdentityService_Register(t *testing.T) {
	f := newIdentityFixture(t)
	id := f.register(t, "s3cret-pass")

	if id.SubjectID != "1000000001" {
		t.Errorf("expected the subject id assigned by the profile service, got %q", id.SubjectID)
	}
	if id.Role != domain.RoleUser || id.Status != domain.IdentityActive {
		t.Errorf("unexpected identity: %+v", id)
	}
	if id.PasswordHash == "" || id.PasswordHash == "s3cret-pass" {
		t.Error("expected a password hash, not the clear password")
	}
}

func TestIdentityService_RegisterOwner(t *testing.T) {
	f := newIdentityFixture(t)
	id, err := f.svc.RegisterOwner(context.Background(), ports.RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "pw-12345"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Role != domain.RoleOwner {
		t.Errorf("expected owner role, got %s", id.Role)
	}
}

func TestIdentityService_RegisterProfileFailure(t *testing.T) {
	f := newIdentityFixture(t)
	f.profiles.createErr = domain.ErrAlreadyExists

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "dup@example.com", Password: "pw-12345"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if list, _ := f.repo.List(context.Background(), ports.IdentityFilter{Role: domain.RoleUser}); len(list) != 0 {
		t.Errorf("expected no identity to be stored, got %d", len(list))
	}
}

func TestIdentityService_RegisterAdmin(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)

	if _, err := f.svc.RegisterAdmin(ctx, asUser, "root2", "pw"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("non-admin: expected ErrAccessDenied, got %v", err)
	}
	if _, err := f.svc.RegisterAdmin(ctx, asAdmin, "admin", "pw"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate: expected ErrAlreadyExists, got %v", err)
	}
	id, err := f.svc.RegisterAdmin(ctx, asAdmin, "root2", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", id.Role)
	}
	if len(f.profiles.identities) != 0 {
		t.Error("administrators must not get a profile")
	}
}

func TestIdentityService_SeedAdminIsIdempotent(t *testing.T) {
	f := newIdentityFixture(t)
	if err := f.svc.SeedAdmin(context.Background(), "admin", "other-pass"); err != nil {
		t.Fatalf("second seed: unexpected error %v", err)
	}
	if err := f.svc.SeedAdmin(context.Background(), "", ""); err != nil {
		t.Fatalf("empty seed: unexpected error %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login / logout
// ---------------------------------------------------------------------------

func TestIdentityService_LoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "s3cret-pass")

	res, err := f.svc.Login(ctx, id.SubjectID, "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.SubjectID != id.SubjectID || res.Role != domain.RoleUser || res.ExpiresAt.IsZero() {
		t.Errorf("unexpected login result: %+v", res)
	}
	if !f.svc.IsTokenActive(ctx, res.Token) {
		t.Fatal("expected token to be active after login")
	}

	if err := f.svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if f.svc.IsTokenActive(ctx, res.Token) {
		t.Fatal("expected token to be inactive after logout")
	}
	if err := f.svc.Logout(ctx, res.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second logout: expected ErrNotFound, got %v", err)
	}
}

func TestIdentityService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "s3cret-pass")

	tests := []struct {
		name     string
		subject  string
		password string
		want     error
	}{
		{"empty subject", "", "s3cret-pass", domain.ErrInvalidCredentials},
		{"empty password", id.SubjectID, "", domain.ErrInvalidCredentials},
		{"unknown subject", "9999999999", "s3cret-pass", domain.ErrInvalidCredentials},
		{"bad password", id.SubjectID, "wrong", domain.ErrInvalidCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Login(ctx, tc.subject, tc.password); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIdentityService_LoginBlockedWhenNotActive(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "s3cret-pass")

	if _, err := f.svc.UpdateIdentityStatus(ctx, asAdmin, id.SubjectID, domain.IdentitySuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, err := f.svc.Login(ctx, id.SubjectID, "s3cret-pass"); !errors.Is(err, domain.ErrInvalidUserState) {
		t.Fatalf("expected ErrInvalidUserState, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Password change
// ---------------------------------------------------------------------------

func TestIdentityService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "old-pass")
	self := domain.Principal{SubjectID: id.SubjectID, Role: domain.RoleUser}

	err := f.svc.ChangePassword(ctx, self, ports.ChangePasswordInput{SubjectID: id.SubjectID, OldPassword: "old-pass", NewPassword: "new-pass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Login(ctx, id.SubjectID, "old-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(ctx, id.SubjectID, "new-pass"); err != nil {
		t.Errorf("new password: unexpected error %v", err)
	}
}

func TestIdentityService_ChangePasswordFailures(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "old-pass")
	self := domain.Principal{SubjectID: id.SubjectID, Role: domain.RoleUser}

	tests := []struct {
		name string
		p    domain.Principal
		in   ports.ChangePasswordInput
		want error
	}{
		{"same password", self, ports.ChangePasswordInput{SubjectID: id.SubjectID, OldPassword: "old-pass", NewPassword: "old-pass"}, domain.ErrInvalidInput},
		{"someone else", asUser2, ports.ChangePasswordInput{SubjectID: id.SubjectID, OldPassword: "old-pass", NewPassword: "x"}, domain.ErrAccessDenied},
		{"admin for someone else", asAdmin, ports.ChangePasswordInput{SubjectID: id.SubjectID, OldPassword: "old-pass", NewPassword: "x"}, domain.ErrAccessDenied},
		{"bad old password", self, ports.ChangePasswordInput{SubjectID: id.SubjectID, OldPassword: "nope", NewPassword: "x"}, domain.ErrInvalidCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := f.svc.ChangePassword(ctx, tc.p, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Status changes and cascade
// ---------------------------------------------------------------------------

func TestIdentityService_UpdateStatusCascades(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "pw-12345")

	res, err := f.svc.UpdateIdentityStatus(ctx, asAdmin, id.SubjectID, domain.IdentitySuspended)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Local.Changed || res.Local.Message != "User status updated from ACTIVE to SUSPENDED" {
		t.Errorf("unexpected local result: %+v", res.Local)
	}
	if !res.Remote.Applied {
		t.Errorf("expected the cascade to be applied: %+v", res.Remote)
	}
	if len(f.profiles.statusCalls) != 1 || f.profiles.statusCalls[0] != id.SubjectID+"=SUSPENDED" {
		t.Errorf("unexpected remote calls: %v", f.profiles.statusCalls)
	}
}

func TestIdentityService_UpdateStatusNoOp(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "pw-12345")

	res, err := f.svc.UpdateIdentityStatus(ctx, asAdmin, id.SubjectID, domain.IdentityActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Local.Changed || res.Local.Message != "User already has status: ACTIVE" {
		t.Errorf("unexpected local result: %+v", res.Local)
	}
	if res.Remote.Attempted || len(f.profiles.statusCalls) != 0 {
		t.Error("a no-op must not cascade")
	}
}

func TestIdentityService_UpdateStatusOfAdminDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	if _, err := f.svc.RegisterAdmin(ctx, asAdmin, "root2", "pw"); err != nil {
		t.Fatalf("register admin: %v", err)
	}

	res, err := f.svc.UpdateIdentityStatus(ctx, asAdmin, "root2", domain.IdentitySuspended)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Local.Changed || res.Remote.Attempted {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestIdentityService_UpdateStatusCascadeFailure(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "pw-12345")
	f.profiles.statusErr = errors.New("profile service down")

	res, err := f.svc.UpdateIdentityStatus(ctx, asAdmin, id.SubjectID, domain.IdentityDeleted)
	var ce *domain.CascadeError
	if !errors.As(err, &ce) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected a cascade error unwrapping to ErrNotFound, got %v", err)
	}
	if !res.Local.Changed || !res.LocalCommittedRemoteFailed() {
		t.Errorf("expected committed local change with failed remote: %+v", res)
	}

	stored, _ := f.repo.FindBySubjectID(ctx, id.SubjectID)
	if stored.Status != domain.IdentityDeleted {
		t.Errorf("local change must be kept, got %s", stored.Status)
	}
}

func TestIdentityService_UpdateStatusRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "pw-12345")

	for _, p := range []domain.Principal{asUser, asOwner, anonymous} {
		if _, err := f.svc.UpdateIdentityStatus(ctx, p, id.SubjectID, domain.IdentityDeleted); !errors.Is(err, domain.ErrAccessDenied) {
			t.Errorf("%+v: expected ErrAccessDenied, got %v", p, err)
		}
	}
	if _, err := f.svc.UpdateIdentityStatus(ctx, asAdmin, "9999999999", domain.IdentityDeleted); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown subject: expected ErrNotFound, got %v", err)
	}
}

func TestIdentityService_MarkDeletedInternal(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	id := f.register(t, "pw-12345")

	first, err := f.svc.MarkDeletedInternal(ctx, id.SubjectID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Changed || first.Status != domain.IdentityDeleted {
		t.Errorf("unexpected first result: %+v", first)
	}
	second, err := f.svc.MarkDeletedInternal(ctx, id.SubjectID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Changed || second.Message != "User already has status: DELETED" {
		t.Errorf("unexpected second result: %+v", second)
	}
	if _, err := f.svc.MarkDeletedInternal(ctx, "9999999999"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown subject: expected ErrNotFound, got %v", err)
	}
}

func TestIdentityService_ListIdentities(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	f.register(t, "pw-12345")

	if _, err := f.svc.ListIdentities(ctx, asUser, ports.IdentityFilter{}); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
	list, err := f.svc.ListIdentities(ctx, asAdmin, ports.IdentityFilter{Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 standard identity, got %d", len(list))
	}
}
