package ports

import (
	"context"

	"github.com/venuehub/platform/internal/core/domain"
)

// CreateResourceInput carries a new resource. OwnerSubjectID is required for
// administrators and forbidden for owners, who always own what they create.
type CreateResourceInput struct {
	OwnerSubjectID string
	Name           string
	Location       string
	About          string
}

// UpdateResourceInput carries the mutable resource fields.
type UpdateResourceInput struct {
	Name     string
	Location string
	About    string
}

// SearchResourcesInput carries the optional search criteria. The caller's
// scope is applied on top by the service.
type SearchResourcesInput struct {
	Name        string
	Location    string
	RatingOp    domain.RatingOperator
	RatingValue float64
	MinRating   *float64
}

// ResourceService defines the resource use cases.
type ResourceService interface {
	Create(ctx context.Context, p domain.Principal, in CreateResourceInput) (*domain.Resource, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Resource, error)
	List(ctx context.Context, p domain.Principal, in SearchResourcesInput) ([]*domain.Resource, error)
	ListDeleted(ctx context.Context, p domain.Principal) ([]*domain.Resource, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateResourceInput) (*domain.Resource, error)
	Delete(ctx context.Context, p domain.Principal, id string) (StatusChange[domain.ResourceStatus], error)
	UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.ResourceStatus) (StatusChange[domain.ResourceStatus], error)
	GetInternal(ctx context.Context, id string) (*RemoteResource, error)
	PushAggregate(ctx context.Context, id string, value float64) error
	ListIDsByOwner(ctx context.Context, ownerSubjectID string) ([]string, error)
}
