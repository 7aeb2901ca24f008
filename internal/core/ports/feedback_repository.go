package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// FeedbackFilter narrows List. Zero values mean no filter.
type FeedbackFilter struct {
	AuthorSubjectID string
	ResourceID      string
	ResourceIDs     []string // non-nil restricts to these resources, even when empty
	Status          domain.FeedbackStatus
}

// FeedbackRepository defines persistence operations for feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) error
	FindByID(ctx context.Context, id string) (*domain.Feedback, error)
	ExistsByAuthorAndResource(ctx context.Context, authorSubjectID, resourceID string) (bool, error)
	Update(ctx context.Context, f *domain.Feedback) error
	List(ctx context.Context, filter FeedbackFilter) ([]*domain.Feedback, error)
	// AverageScore is the mean score of the ACTIVE feedback on resourceID,
	// 0.0 when there is none.
	AverageScore(ctx context.Context, resourceID string) (float64, error)
}
