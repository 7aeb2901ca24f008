package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// CreateFeedbackInput carries a new feedback item.
type CreateFeedbackInput struct {
	AuthorSubjectID string
	ResourceID      string
	Score           float64
	Comment         string
}

// FeedbackService defines the feedback use cases.
type FeedbackService interface {
	Create(ctx context.Context, p domain.Principal, in CreateFeedbackInput) (Cascade[*domain.Feedback], error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Feedback, error)
	List(ctx context.Context, p domain.Principal) ([]*domain.Feedback, error)
	ListByResource(ctx context.Context, p domain.Principal, resourceID string) ([]*domain.Feedback, error)
	ListByAuthor(ctx context.Context, p domain.Principal, subjectID string) ([]*domain.Feedback, error)
	UpdateComment(ctx context.Context, p domain.Principal, id, comment string) (*domain.Feedback, error)
	Delete(ctx context.Context, p domain.Principal, id string) (StatusChange[domain.FeedbackStatus], error)
	UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.FeedbackStatus) (StatusChange[domain.FeedbackStatus], error)
	AverageForResource(ctx context.Context, p domain.Principal, resourceID string) (float64, error)
}
