package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// ResourceFilter carries every query parameter of the resource list and search
// endpoints. The service fills OwnerSubjectID and Status from the caller's
// scope; the rest comes from the request.
type ResourceFilter struct {
	OwnerSubjectID string                // empty = any owner
	Status         domain.ResourceStatus // empty = any status
	Name           string                // optional: case-insensitive partial match
	Location       string                // optional: case-insensitive partial match
	RatingOp       domain.RatingOperator // optional: compares Rating against RatingValue
	RatingValue    float64
	MinRating      *float64 // optional: rating >= MinRating
	IDs            []string // optional: restrict to these ids
}

// ResourceRepository defines persistence operations for resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *domain.Resource) error
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
	// ExistsByName matches case-insensitively and ignores exceptID.
	ExistsByName(ctx context.Context, name, exceptID string) (bool, error)
	Update(ctx context.Context, r *domain.Resource) error
	List(ctx context.Context, filter ResourceFilter) ([]*domain.Resource, error)
}
