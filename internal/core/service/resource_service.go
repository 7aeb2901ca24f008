package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// ResourceService implements resource management.
type ResourceService struct {
	repo   ports.ResourceRepository
	access *Ownership
	newID  IDGenerator
	log    zerolog.Logger
	now    func() time.Time
}

func NewResourceService(repo ports.ResourceRepository, owners OwnerValidator, log zerolog.Logger) *ResourceService {
	s := &ResourceService{
		repo:  repo,
		newID: NewNumericID,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
	s.access = NewOwnership("resource", s.ownerOf, owners, log)
	return s
}

func (s *ResourceService) ownerOf(ctx context.Context, id string) (string, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return r.OwnerSubjectID, nil
}

// Access exposes the ownership evaluator for resources.
func (s *ResourceService) Access() *Ownership { return s.access }

// Create registers a resource. Owners create for themselves; administrators
// create on behalf of a declared owner, which is validated remotely.
func (s *ResourceService) Create(ctx context.Context, p domain.Principal, in ports.CreateResourceInput) (*domain.Resource, error) {
	var owner string
	switch {
	case p.Role == domain.RoleOwner && p.Authenticated():
		if in.OwnerSubjectID != "" && in.OwnerSubjectID != p.SubjectID {
			return nil, fmt.Errorf("create resource: %w: owners must not declare another owner", domain.ErrAccessDenied)
		}
		owner = p.SubjectID
	case p.IsAdmin():
		if strings.TrimSpace(in.OwnerSubjectID) == "" {
			return nil, fmt.Errorf("create resource: %w: administrators must declare the owner", domain.ErrAccessDenied)
		}
		owner = in.OwnerSubjectID
	default:
		return nil, fmt.Errorf("create resource: %w: only owners or administrators can create resources", domain.ErrAccessDenied)
	}

	if err := s.access.RequireRemoteOwnerValid(ctx, owner); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	taken, err := s.repo.ExistsByName(ctx, in.Name, "")
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	if taken {
		s.log.Warn().Str("name", in.Name).Msg("resource creation failed: name already exists")
		return nil, fmt.Errorf("create resource: name %q: %w", in.Name, domain.ErrAlreadyExists)
	}

	id, err := nextID(s.newID)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	now := s.now()
	r := &domain.Resource{
		ID:             id,
		OwnerSubjectID: owner,
		Name:           in.Name,
		Location:       in.Location,
		About:          in.About,
		Status:         domain.ResourceLifecycle.Initial(),
		Rating:         0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	s.log.Info().Str("resource_id", r.ID).Str("owner_subject_id", owner).Str("subject_id", p.SubjectID).Msg("resource created")
	return r, nil
}

// Get returns a resource to its owner or an administrator.
func (s *ResourceService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Resource, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get resource %s: %w", id, err)
	}
	if err := s.access.RequireOwnerOrAdmin(r.OwnerSubjectID, p); err != nil {
		return nil, err
	}
	return r, nil
}

// List searches resources within the caller's scope.
func (s *ResourceService) List(ctx context.Context, p domain.Principal, in ports.SearchResourcesInput) ([]*domain.Resource, error) {
	if in.RatingOp != "" {
		switch in.RatingOp {
		case domain.RatingGreaterThan, domain.RatingLessThan, domain.RatingEqual:
		default:
			return nil, fmt.Errorf("list resources: %w: unknown rating operator %q", domain.ErrInvalidInput, in.RatingOp)
		}
	}

	filter := ports.ResourceFilter{
		Name:        in.Name,
		Location:    in.Location,
		RatingOp:    in.RatingOp,
		RatingValue: in.RatingValue,
		MinRating:   in.MinRating,
	}
	scope := domain.ResourceScope.Resolve(p)
	switch scope.Mode {
	case domain.ScopeAll:
	case domain.ScopeOwned:
		filter.OwnerSubjectID = scope.SubjectID
		if scope.ActiveOnly {
			filter.Status = domain.ResourceActive
		}
	case domain.ScopeActiveOnly:
		filter.Status = domain.ResourceActive
	default:
		return nil, fmt.Errorf("list resources: %w", domain.ErrAccessDenied)
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	if len(items) == 0 {
		s.log.Warn().Str("subject_id", p.SubjectID).Str("scope", scope.Mode.String()).Msg("no resources found")
		return nil, fmt.Errorf("list resources: no resources found: %w", domain.ErrNotFound)
	}
	return items, nil
}

// ListDeleted returns DELETED resources: all of them for administrators, their
// own for owners.
func (s *ResourceService) ListDeleted(ctx context.Context, p domain.Principal) ([]*domain.Resource, error) {
	filter := ports.ResourceFilter{Status: domain.ResourceDeleted}
	scope := domain.ResourceScope.Resolve(p)
	switch scope.Mode {
	case domain.ScopeAll:
	case domain.ScopeOwned:
		filter.OwnerSubjectID = scope.SubjectID
	default:
		s.log.Warn().Str("subject_id", p.SubjectID).Msg("unauthorized attempt to list deleted resources")
		return nil, fmt.Errorf("list deleted resources: %w", domain.ErrAccessDenied)
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list deleted resources: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("list deleted resources: no deleted resources found: %w", domain.ErrNotFound)
	}
	return items, nil
}

// Update changes the mutable fields of a resource. The owner never changes.
func (s *ResourceService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateResourceInput) (*domain.Resource, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update resource %s: %w", id, err)
	}
	if err := s.access.RequireOwnerOrAdmin(r.OwnerSubjectID, p); err != nil {
		return nil, err
	}

	if in.Name != "" && !strings.EqualFold(in.Name, r.Name) {
		taken, err := s.repo.ExistsByName(ctx, in.Name, id)
		if err != nil {
			return nil, fmt.Errorf("update resource %s: %w", id, err)
		}
		if taken {
			return nil, fmt.Errorf("update resource %s: name %q: %w", id, in.Name, domain.ErrAlreadyExists)
		}
	}

	if in.Name != "" {
		r.Name = in.Name
	}
	if in.Location != "" {
		r.Location = in.Location
	}
	r.About = in.About
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update resource %s: %w", id, err)
	}
	s.log.Info().Str("resource_id", id).Msg("resource updated")
	return r, nil
}

// Delete moves a resource to DELETED. Owners and administrators only.
func (s *ResourceService) Delete(ctx context.Context, p domain.Principal, id string) (ports.StatusChange[domain.ResourceStatus], error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ports.StatusChange[domain.ResourceStatus]{}, fmt.Errorf("delete resource %s: %w", id, err)
	}
	if err := s.access.RequireOwnerOrAdmin(r.OwnerSubjectID, p); err != nil {
		return ports.StatusChange[domain.ResourceStatus]{}, err
	}
	return s.transition(ctx, r, domain.ResourceDeleted)
}

// UpdateStatus moves a resource to any status. Administrators only.
func (s *ResourceService) UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.ResourceStatus) (ports.StatusChange[domain.ResourceStatus], error) {
	if err := s.access.RequireAdmin(p); err != nil {
		return ports.StatusChange[domain.ResourceStatus]{}, fmt.Errorf("update resource status: %w", err)
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ports.StatusChange[domain.ResourceStatus]{}, fmt.Errorf("update resource status %s: %w", id, err)
	}
	return s.transition(ctx, r, status)
}

func (s *ResourceService) transition(ctx context.Context, r *domain.Resource, status domain.ResourceStatus) (ports.StatusChange[domain.ResourceStatus], error) {
	t, err := domain.ResourceLifecycle.Apply(r, status, s.now())
	if err != nil {
		return ports.StatusChange[domain.ResourceStatus]{}, fmt.Errorf("resource %s: %w", r.ID, err)
	}
	recordTransition(domain.ResourceLifecycle.Kind(), t.Changed)
	if !t.Changed {
		s.log.Info().Str("resource_id", r.ID).Str("status", string(status)).Msg("no update performed, status unchanged")
		return statusChange(r.ID, t), nil
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return ports.StatusChange[domain.ResourceStatus]{}, fmt.Errorf("resource %s: %w", r.ID, err)
	}
	s.log.Info().Str("resource_id", r.ID).Str("from", string(t.From)).Str("to", string(t.To)).Msg("resource status updated")
	return statusChange(r.ID, t), nil
}

// GetInternal serves the GetResource contract.
func (s *ResourceService) GetInternal(ctx context.Context, id string) (*ports.RemoteResource, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get resource %s: %w", id, err)
	}
	return &ports.RemoteResource{ID: r.ID, OwnerSubjectID: r.OwnerSubjectID, Status: r.Status, Rating: r.Rating}, nil
}

// PushAggregate stores the average score computed by the feedback service.
func (s *ResourceService) PushAggregate(ctx context.Context, id string, value float64) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error().Str("resource_id", id).Msg("aggregate push failed: resource not found")
		return fmt.Errorf("push aggregate %s: %w", id, err)
	}
	r.Rating = value
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return fmt.Errorf("push aggregate %s: %w", id, err)
	}
	s.log.Info().Str("resource_id", id).Float64("rating", value).Msg("resource rating updated")
	return nil
}

// ListIDsByOwner returns the ids of every resource owned by ownerSubjectID.
func (s *ResourceService) ListIDsByOwner(ctx context.Context, ownerSubjectID string) ([]string, error) {
	items, err := s.repo.List(ctx, ports.ResourceFilter{OwnerSubjectID: ownerSubjectID})
	if err != nil {
		return nil, fmt.Errorf("list resource ids: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("list resource ids: no resources for owner %s: %w", ownerSubjectID, domain.ErrNotFound)
	}
	ids := make([]string, 0, len(items))
	for _, r := range items {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
