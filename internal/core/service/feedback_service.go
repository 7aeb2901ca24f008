package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// FeedbackService implements feedback management and the aggregate recompute
// cascade into the resource service.
type FeedbackService struct {
	repo       ports.FeedbackRepository
	identities ports.ProfileDirectory
	resources  ports.ResourceDirectory
	cascade    *Coordinator
	access     *Ownership
	newID      IDGenerator
	log        zerolog.Logger
	now        func() time.Time
}

func NewFeedbackService(
	repo ports.FeedbackRepository,
	identities ports.ProfileDirectory,
	resources ports.ResourceDirectory,
	cascade *Coordinator,
	log zerolog.Logger,
) *FeedbackService {
	s := &FeedbackService{
		repo:       repo,
		identities: identities,
		resources:  resources,
		cascade:    cascade,
		newID:      NewNumericID,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.access = NewOwnership("feedback", s.authorOf, identities, log)
	return s
}

func (s *FeedbackService) authorOf(ctx context.Context, id string) (string, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return f.AuthorSubjectID, nil
}

// Access exposes the ownership evaluator for feedback.
func (s *FeedbackService) Access() *Ownership { return s.access }

// remoteResource fetches a resource from the resource service. Any failure is
// reported as ErrNotFound.
func (s *FeedbackService) remoteResource(ctx context.Context, resourceID string) (*ports.RemoteResource, error) {
	r, err := s.resources.GetResource(ctx, resourceID)
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", resourceID).Msg("resource service call failed")
		return nil, notFound(fmt.Sprintf("resource %s", resourceID), err)
	}
	return r, nil
}

func (s *FeedbackService) remoteIdentity(ctx context.Context, subjectID string) (*ports.RemoteIdentity, error) {
	id, err := s.identities.GetIdentity(ctx, subjectID)
	if err != nil {
		s.log.Error().Err(err).Str("subject_id", subjectID).Msg("profile service call failed")
		return nil, notFound(fmt.Sprintf("identity %s", subjectID), err)
	}
	return id, nil
}

func notFound(what string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w: %v", what, domain.ErrNotFound, err)
}

// Create stores a feedback item, recomputes the resource's average score over
// ACTIVE feedback and pushes it to the resource service. The feedback is
// committed before the push; a failed push is returned as a
// *domain.CascadeError alongside the committed item.
func (s *FeedbackService) Create(ctx context.Context, p domain.Principal, in ports.CreateFeedbackInput) (ports.Cascade[*domain.Feedback], error) {
	var out ports.Cascade[*domain.Feedback]

	if !p.Authenticated() || p.Role != domain.RoleUser {
		return out, fmt.Errorf("create feedback: %w: only standard subjects can leave feedback", domain.ErrAccessDenied)
	}
	if in.AuthorSubjectID == "" {
		in.AuthorSubjectID = p.SubjectID
	}
	if in.AuthorSubjectID != p.SubjectID {
		return out, fmt.Errorf("create feedback: %w: feedback can only be created for yourself", domain.ErrAccessDenied)
	}
	if in.Score < domain.MinScore || in.Score > domain.MaxScore {
		return out, fmt.Errorf("create feedback: %w: score must be between %.0f and %.0f", domain.ErrInvalidInput, domain.MinScore, domain.MaxScore)
	}

	if _, err := s.remoteIdentity(ctx, in.AuthorSubjectID); err != nil {
		return out, fmt.Errorf("create feedback: %w", err)
	}
	if _, err := s.remoteResource(ctx, in.ResourceID); err != nil {
		return out, fmt.Errorf("create feedback: %w", err)
	}

	exists, err := s.repo.ExistsByAuthorAndResource(ctx, in.AuthorSubjectID, in.ResourceID)
	if err != nil {
		return out, fmt.Errorf("create feedback: %w", err)
	}
	if exists {
		return out, fmt.Errorf("create feedback: subject %s already left feedback on resource %s: %w", in.AuthorSubjectID, in.ResourceID, domain.ErrAlreadyExists)
	}

	id, err := nextID(s.newID)
	if err != nil {
		return out, fmt.Errorf("create feedback: %w", err)
	}
	now := s.now()
	f := &domain.Feedback{
		ID:              id,
		AuthorSubjectID: in.AuthorSubjectID,
		ResourceID:      in.ResourceID,
		Score:           in.Score,
		Comment:         in.Comment,
		Status:          domain.FeedbackLifecycle.Initial(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return out, fmt.Errorf("create feedback: %w", err)
	}
	out.Local = f
	s.log.Info().Str("feedback_id", f.ID).Str("resource_id", f.ResourceID).Str("subject_id", f.AuthorSubjectID).Msg("feedback created")

	out.Remote, err = s.cascade.Propagate(ctx, StepPushAggregate, f.ResourceID, func(ctx context.Context) error {
		avg, err := s.repo.AverageScore(ctx, f.ResourceID)
		if err != nil {
			return fmt.Errorf("recompute average: %w", err)
		}
		s.log.Info().Str("resource_id", f.ResourceID).Float64("rating", avg).Msg("pushing new average score")
		return s.resources.PushAggregate(ctx, f.ResourceID, avg)
	})
	return out, err
}

// Get returns a feedback item. Administrators see any item, authors their own
// ACTIVE items, owners items on resources they own.
func (s *FeedbackService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Feedback, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get feedback %s: %w", id, err)
	}

	scope := domain.FeedbackScope.Resolve(p)
	switch scope.Mode {
	case domain.ScopeAll:
		return f, nil
	case domain.ScopeOwned:
		if scope.ActiveOnly && f.Status != domain.FeedbackActive {
			return nil, fmt.Errorf("get feedback %s: %w", id, domain.ErrNotFound)
		}
		if err := s.access.RequireOwnerOrAdmin(f.AuthorSubjectID, p); err != nil {
			return nil, err
		}
		return f, nil
	case domain.ScopeRelated:
		if err := s.requireResourceOwner(ctx, f.ResourceID, p); err != nil {
			return nil, fmt.Errorf("get feedback %s: %w", id, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("get feedback %s: %w", id, domain.ErrAccessDenied)
}

// requireResourceOwner checks p against the owner recorded by the resource
// service.
func (s *FeedbackService) requireResourceOwner(ctx context.Context, resourceID string, p domain.Principal) error {
	r, err := s.remoteResource(ctx, resourceID)
	if err != nil {
		return err
	}
	return s.access.RequireOwnerOrAdmin(r.OwnerSubjectID, p)
}

// List returns the feedback visible to the caller: all for administrators,
// own ACTIVE items for authors, items on owned resources for owners.
func (s *FeedbackService) List(ctx context.Context, p domain.Principal) ([]*domain.Feedback, error) {
	var filter ports.FeedbackFilter

	scope := domain.FeedbackScope.Resolve(p)
	switch scope.Mode {
	case domain.ScopeAll:
	case domain.ScopeOwned:
		filter.AuthorSubjectID = scope.SubjectID
		if scope.ActiveOnly {
			filter.Status = domain.FeedbackActive
		}
	case domain.ScopeRelated:
		ids, err := s.resources.ListIDsByOwner(ctx, scope.SubjectID)
		if err != nil {
			s.log.Error().Err(err).Str("subject_id", scope.SubjectID).Msg("resource service call failed")
			return nil, fmt.Errorf("list feedback: %w", notFound("resources of "+scope.SubjectID, err))
		}
		filter.ResourceIDs = ids
	default:
		return nil, fmt.Errorf("list feedback: %w", domain.ErrAccessDenied)
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("list feedback: no feedback found: %w", domain.ErrNotFound)
	}
	return items, nil
}

// ListByResource returns the feedback on one resource visible to the caller:
// all of it for administrators and the resource's owner, the ACTIVE items for
// standard subjects.
func (s *FeedbackService) ListByResource(ctx context.Context, p domain.Principal, resourceID string) ([]*domain.Feedback, error) {
	r, err := s.remoteResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list feedback by resource: %w", err)
	}

	filter := ports.FeedbackFilter{ResourceID: resourceID}
	switch scope := domain.FeedbackScope.Resolve(p); scope.Mode {
	case domain.ScopeAll:
	case domain.ScopeOwned:
		filter.Status = domain.FeedbackActive
	case domain.ScopeRelated:
		if err := s.access.RequireOwnerOrAdmin(r.OwnerSubjectID, p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("list feedback by resource: %w", domain.ErrAccessDenied)
	}
	return s.repo.List(ctx, filter)
}

// ListByAuthor returns the feedback left by subjectID: all of it for
// administrators, the ACTIVE items for the author themself.
func (s *FeedbackService) ListByAuthor(ctx context.Context, p domain.Principal, subjectID string) ([]*domain.Feedback, error) {
	if _, err := s.remoteIdentity(ctx, subjectID); err != nil {
		return nil, fmt.Errorf("list feedback by author: %w", err)
	}

	filter := ports.FeedbackFilter{AuthorSubjectID: subjectID}
	switch scope := domain.FeedbackScope.Resolve(p); scope.Mode {
	case domain.ScopeAll:
	case domain.ScopeOwned:
		if err := s.access.RequireOwnerOrAdmin(subjectID, p); err != nil {
			return nil, err
		}
		if scope.ActiveOnly {
			filter.Status = domain.FeedbackActive
		}
	default:
		return nil, fmt.Errorf("list feedback by author: %w", domain.ErrAccessDenied)
	}
	return s.repo.List(ctx, filter)
}

// UpdateComment replaces the comment of a feedback item. The score never
// changes.
func (s *FeedbackService) UpdateComment(ctx context.Context, p domain.Principal, id, comment string) (*domain.Feedback, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update feedback %s: %w", id, err)
	}
	if err := s.access.RequireOwnerOrAdmin(f.AuthorSubjectID, p); err != nil {
		return nil, err
	}
	f.Comment = comment
	f.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("update feedback %s: %w", id, err)
	}
	s.log.Info().Str("feedback_id", id).Msg("feedback comment updated")
	return f, nil
}

// Delete moves a feedback item to DELETED. Administrators only.
func (s *FeedbackService) Delete(ctx context.Context, p domain.Principal, id string) (ports.StatusChange[domain.FeedbackStatus], error) {
	return s.UpdateStatus(ctx, p, id, domain.FeedbackDeleted)
}

// UpdateStatus moves a feedback item to any status. Administrators only. The
// resource's aggregate is not recomputed.
func (s *FeedbackService) UpdateStatus(ctx context.Context, p domain.Principal, id string, status domain.FeedbackStatus) (ports.StatusChange[domain.FeedbackStatus], error) {
	if err := s.access.RequireAdmin(p); err != nil {
		s.log.Warn().Str("subject_id", p.SubjectID).Msg("only administrators can change feedback status")
		return ports.StatusChange[domain.FeedbackStatus]{}, fmt.Errorf("update feedback status: %w", err)
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ports.StatusChange[domain.FeedbackStatus]{}, fmt.Errorf("update feedback status %s: %w", id, err)
	}

	t, err := domain.FeedbackLifecycle.Apply(f, status, s.now())
	if err != nil {
		return ports.StatusChange[domain.FeedbackStatus]{}, fmt.Errorf("update feedback status %s: %w", id, err)
	}
	recordTransition(domain.FeedbackLifecycle.Kind(), t.Changed)
	if t.Changed {
		if err := s.repo.Update(ctx, f); err != nil {
			return ports.StatusChange[domain.FeedbackStatus]{}, fmt.Errorf("update feedback status %s: %w", id, err)
		}
		s.log.Info().Str("feedback_id", id).Str("from", string(t.From)).Str("to", string(t.To)).Msg("feedback status updated")
	}
	return statusChange(id, t), nil
}

// AverageForResource returns the aggregate stored on the resource. Owners may
// only read the aggregate of resources they own.
func (s *FeedbackService) AverageForResource(ctx context.Context, p domain.Principal, resourceID string) (float64, error) {
	r, err := s.remoteResource(ctx, resourceID)
	if err != nil {
		return 0, fmt.Errorf("average score: %w", err)
	}
	if domain.FeedbackScope.Resolve(p).Mode == domain.ScopeRelated {
		if err := s.access.RequireOwnerOrAdmin(r.OwnerSubjectID, p); err != nil {
			return 0, err
		}
	}
	return r.Rating, nil
}
