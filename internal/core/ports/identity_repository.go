package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// IdentityFilter narrows ListIdentities. Zero values mean no filter.
type IdentityFilter struct {
	Role   domain.Role
	Status domain.IdentityStatus
}

// IdentityRepository defines persistence operations for identities.
type IdentityRepository interface {
	// Create fails with domain.ErrAlreadyExists when the subject id is taken.
	Create(ctx context.Context, identity *domain.Identity) error
	// FindBySubjectID fails with domain.ErrNotFound on a miss.
	FindBySubjectID(ctx context.Context, subjectID string) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) error
	List(ctx context.Context, filter IdentityFilter) ([]*domain.Identity, error)
}
