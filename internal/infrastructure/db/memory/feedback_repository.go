package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

type FeedbackRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Feedback
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{byID: make(map[string]*domain.Feedback)}
}

// Create enforces the one-feedback-per-author-and-resource rule like the
// unique index of the Mongo repository.
func (r *FeedbackRepository) Create(_ context.Context, f *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[f.ID]; ok {
		return domain.ErrAlreadyExists
	}
	for _, existing := range r.byID {
		if existing.AuthorSubjectID == f.AuthorSubjectID && existing.ResourceID == f.ResourceID {
			return domain.ErrAlreadyExists
		}
	}
	clone := *f
	r.byID[f.ID] = &clone
	return nil
}

func (r *FeedbackRepository) FindByID(_ context.Context, id string) (*domain.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *FeedbackRepository) ExistsByAuthorAndResource(_ context.Context, authorSubjectID, resourceID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.byID {
		if f.AuthorSubjectID == authorSubjectID && f.ResourceID == resourceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FeedbackRepository) Update(_ context.Context, f *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[f.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *f
	r.byID[f.ID] = &clone
	return nil
}

func (r *FeedbackRepository) List(_ context.Context, f ports.FeedbackFilter) ([]*domain.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var resources map[string]struct{}
	if f.ResourceIDs != nil {
		resources = make(map[string]struct{}, len(f.ResourceIDs))
		for _, id := range f.ResourceIDs {
			resources[id] = struct{}{}
		}
	}

	var out []*domain.Feedback
	for _, fb := range r.byID {
		if f.AuthorSubjectID != "" && fb.AuthorSubjectID != f.AuthorSubjectID {
			continue
		}
		if f.ResourceID != "" && fb.ResourceID != f.ResourceID {
			continue
		}
		if resources != nil {
			if _, ok := resources[fb.ResourceID]; !ok {
				continue
			}
		}
		if f.Status != "" && fb.Status != f.Status {
			continue
		}
		clone := *fb
		out = append(out, &clone)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *FeedbackRepository) AverageScore(_ context.Context, resourceID string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	var n int
	for _, f := range r.byID {
		if f.ResourceID == resourceID && f.Status == domain.FeedbackActive {
			sum += f.Score
			n++
		}
	}
	if n == 0 {
		return 0.0, nil
	}
	return sum / float64(n), nil
}
