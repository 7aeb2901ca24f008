package ports

import (
	"context"
	"time"

	"github.com/venuehub/platform/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	About    string
	Password string
}

// ChangePasswordInput carries a password change for SubjectID.
type ChangePasswordInput struct {
	SubjectID   string
	OldPassword string
	NewPassword string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	SubjectID string
	Role      domain.Role
	ExpiresAt time.Time
}

// IdentityService defines the identity use cases.
type IdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	RegisterOwner(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	RegisterAdmin(ctx context.Context, p domain.Principal, subjectID, password string) (*domain.Identity, error)
	SeedAdmin(ctx context.Context, subjectID, password string) error
	Login(ctx context.Context, subjectID, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, p domain.Principal, in ChangePasswordInput) error
	ListIdentities(ctx context.Context, p domain.Principal, filter IdentityFilter) ([]*domain.Identity, error)
	UpdateIdentityStatus(ctx context.Context, p domain.Principal, subjectID string, status domain.IdentityStatus) (Cascade[StatusChange[domain.IdentityStatus]], error)
	MarkDeletedInternal(ctx context.Context, subjectID string) (StatusChange[domain.IdentityStatus], error)
	IsTokenActive(ctx context.Context, token string) bool
}
