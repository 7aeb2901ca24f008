package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

type ProfileRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{byID: make(map[string]*domain.Profile)}
}

func (r *ProfileRepository) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.SubjectID]; ok {
		return domain.ErrAlreadyExists
	}
	clone := *p
	r.byID[p.SubjectID] = &clone
	return nil
}

func (r *ProfileRepository) FindBySubjectID(_ context.Context, subjectID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *ProfileRepository) ExistsByEmail(_ context.Context, email, exceptSubjectID string) (bool, error) {
	return r.exists(func(p *domain.Profile) bool { return strings.EqualFold(p.Email, email) }, exceptSubjectID), nil
}

func (r *ProfileRepository) ExistsByMobile(_ context.Context, mobile, exceptSubjectID string) (bool, error) {
	return r.exists(func(p *domain.Profile) bool { return p.Mobile == mobile }, exceptSubjectID), nil
}

func (r *ProfileRepository) exists(match func(*domain.Profile) bool, exceptSubjectID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.byID {
		if id != exceptSubjectID && match(p) {
			return true
		}
	}
	return false
}

func (r *ProfileRepository) Update(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.SubjectID]; !ok {
		return domain.ErrNotFound
	}
	clone := *p
	r.byID[p.SubjectID] = &clone
	return nil
}

func (r *ProfileRepository) List(_ context.Context, f ports.ProfileFilter) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Profile
	for _, p := range r.byID {
		if f.Role != "" && p.Role != f.Role {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SubjectID < out[b].SubjectID })
	return out, nil
}
