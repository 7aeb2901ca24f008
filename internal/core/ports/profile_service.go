package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// CreateProfileInput is sent by the identity service during registration.
type CreateProfileInput struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Mobile string      `json:"mobile"`
	About  string      `json:"about,omitempty"`
	Role   domain.Role `json:"role"`
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name   string
	Email  string
	Mobile string
	About  string
}

// ProfileService defines the profile use cases.
type ProfileService interface {
	CreateInternal(ctx context.Context, in CreateProfileInput) (*domain.Profile, error)
	GetInternal(ctx context.Context, subjectID string) (*RemoteIdentity, error)
	ValidateOwnerCandidate(ctx context.Context, subjectID string) (*OwnerValidation, error)
	SetStatusInternal(ctx context.Context, subjectID string, status domain.IdentityStatus) (StatusChange[domain.IdentityStatus], error)
	Get(ctx context.Context, p domain.Principal, subjectID string) (*domain.Profile, error)
	List(ctx context.Context, p domain.Principal, filter ProfileFilter) ([]*domain.Profile, error)
	Update(ctx context.Context, p domain.Principal, subjectID string, in UpdateProfileInput) (*domain.Profile, error)
	Delete(ctx context.Context, p domain.Principal, subjectID string) (Cascade[StatusChange[domain.IdentityStatus]], error)
}
