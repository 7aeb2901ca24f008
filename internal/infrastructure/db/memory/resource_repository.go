package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

type ResourceRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Resource
}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{byID: make(map[string]*domain.Resource)}
}

func (r *ResourceRepository) Create(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[res.ID]; ok {
		return domain.ErrAlreadyExists
	}
	clone := *res
	r.byID[res.ID] = &clone
	return nil
}

func (r *ResourceRepository) FindByID(_ context.Context, id string) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *ResourceRepository) ExistsByName(_ context.Context, name, exceptID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, res := range r.byID {
		if id != exceptID && strings.EqualFold(res.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ResourceRepository) Update(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[res.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *res
	r.byID[res.ID] = &clone
	return nil
}

// List applies the same filters the Mongo repository turns into a query.
func (r *ResourceRepository) List(_ context.Context, f ports.ResourceFilter) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids map[string]struct{}
	if f.IDs != nil {
		ids = make(map[string]struct{}, len(f.IDs))
		for _, id := range f.IDs {
			ids[id] = struct{}{}
		}
	}

	var out []*domain.Resource
	for _, res := range r.byID {
		if f.OwnerSubjectID != "" && res.OwnerSubjectID != f.OwnerSubjectID {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		if ids != nil {
			if _, ok := ids[res.ID]; !ok {
				continue
			}
		}
		if f.Name != "" && !containsFold(res.Name, f.Name) {
			continue
		}
		if f.Location != "" && !containsFold(res.Location, f.Location) {
			continue
		}
		if f.RatingOp != "" && !f.RatingOp.Match(res.Rating, f.RatingValue) {
			continue
		}
		if f.MinRating != nil && res.Rating < *f.MinRating {
			continue
		}
		clone := *res
		out = append(out, &clone)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
