package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

type IdentityRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Identity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{byID: make(map[string]*domain.Identity)}
}

func (r *IdentityRepository) Create(_ context.Context, i *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[i.SubjectID]; ok {
		return domain.ErrAlreadyExists
	}
	clone := *i
	r.byID[i.SubjectID] = &clone
	return nil
}

func (r *IdentityRepository) FindBySubjectID(_ context.Context, subjectID string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *IdentityRepository) Update(_ context.Context, i *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[i.SubjectID]; !ok {
		return domain.ErrNotFound
	}
	clone := *i
	r.byID[i.SubjectID] = &clone
	return nil
}

func (r *IdentityRepository) List(_ context.Context, f ports.IdentityFilter) ([]*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Identity
	for _, i := range r.byID {
		if f.Role != "" && i.Role != f.Role {
			continue
		}
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		clone := *i
		out = append(out, &clone)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SubjectID < out[b].SubjectID })
	return out, nil
}
