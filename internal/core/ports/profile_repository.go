package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// ProfileFilter narrows List. Zero values mean no filter.
type ProfileFilter struct {
	Role   domain.Role
	Status domain.IdentityStatus
}

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	FindBySubjectID(ctx context.Context, subjectID string) (*domain.Profile, error)
	// ExistsByEmail reports whether another profile than exceptSubjectID
	// already uses email. Pass an empty exceptSubjectID on creation.
	ExistsByEmail(ctx context.Context, email, exceptSubjectID string) (bool, error)
	ExistsByMobile(ctx context.Context, mobile, exceptSubjectID string) (bool, error)
	Update(ctx context.Context, p *domain.Profile) error
	List(ctx context.Context, filter ProfileFilter) ([]*domain.Profile, error)
}
