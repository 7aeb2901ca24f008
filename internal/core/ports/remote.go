package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// RemoteIdentity is the GetIdentity contract served by the profile service.
type RemoteIdentity struct {
	SubjectID string                `json:"subject_id"`
	Role      domain.Role           `json:"role"`
	Status    domain.IdentityStatus `json:"status"`
}

// OwnerValidation is the ValidateOwnerCandidate contract.
type OwnerValidation struct {
	Valid  bool   `json:"is_valid_owner"`
	Reason string `json:"reason,omitempty"`
}

// RemoteResource is the GetResource contract served by the resource service.
type RemoteResource struct {
	ID             string                `json:"id"`
	OwnerSubjectID string                `json:"owner_subject_id"`
	Status         domain.ResourceStatus `json:"status"`
	Rating         float64               `json:"rating"`
}

// ProfileDirectory is the profile service as seen by its peers. Every method
// fails with domain.ErrNotFound on a remote miss or a transport failure.
type ProfileDirectory interface {
	CreateProfile(ctx context.Context, in CreateProfileInput) (*domain.Profile, error)
	GetIdentity(ctx context.Context, subjectID string) (*RemoteIdentity, error)
	ValidateOwnerCandidate(ctx context.Context, subjectID string) (*OwnerValidation, error)
	SetRemoteStatus(ctx context.Context, subjectID string, status domain.IdentityStatus) error
}

// ResourceDirectory is the resource service as seen by its peers.
type ResourceDirectory interface {
	GetResource(ctx context.Context, resourceID string) (*RemoteResource, error)
	PushAggregate(ctx context.Context, resourceID string, value float64) error
	ListIDsByOwner(ctx context.Context, ownerSubjectID string) ([]string, error)
}

// IdentityDirectory is the identity service as seen by its peers.
type IdentityDirectory interface {
	MarkDeleted(ctx context.Context, subjectID string) error
}
