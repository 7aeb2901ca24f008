package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
	"github.com/venuehub/platform/internal/infrastructure/db/memory"
)

const testSecret = "test-secret"

var nopLog = zerolog.Nop()

var (
	asAdmin   = domain.Principal{SubjectID: "admin", Role: domain.RoleAdmin}
	asOwner   = domain.Principal{SubjectID: "2000000001", Role: domain.RoleOwner}
	asOther   = domain.Principal{SubjectID: "2000000002", Role: domain.RoleOwner}
	asUser    = domain.Principal{SubjectID: "3000000001", Role: domain.RoleUser}
	asUser2   = domain.Principal{SubjectID: "3000000002", Role: domain.RoleUser}
	anonymous = domain.Principal{}
)

func newTokens() *TokenService {
	return NewTokenService(testSecret, DefaultTokenTTL, memory.NewTokenStore(), nopLog)
}

// sequentialIDs returns an IDGenerator yielding base, base+1, ...
func sequentialIDs(base int64) IDGenerator {
	var mu sync.Mutex
	next := base
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		id := fmt.Sprintf("%010d", next)
		next++
		return id, nil
	}
}

// ---------------------------------------------------------------------------
// Stub profile directory
// ---------------------------------------------------------------------------

type stubProfiles struct {
	mu          sync.Mutex
	newID       IDGenerator
	identities  map[string]*ports.RemoteIdentity
	owners      map[string]*ports.OwnerValidation
	statusCalls []string

	createErr   error
	getErr      error
	validateErr error
	statusErr   error
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{
		newID:      sequentialIDs(1_000_000_001),
		identities: make(map[string]*ports.RemoteIdentity),
		owners:     make(map[string]*ports.OwnerValidation),
	}
}

func (s *stubProfiles) CreateProfile(_ context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	id, _ := s.newID()
	s.mu.Lock()
	s.identities[id] = &ports.RemoteIdentity{SubjectID: id, Role: in.Role, Status: domain.IdentityActive}
	s.mu.Unlock()
	return &domain.Profile{SubjectID: id, Name: in.Name, Email: in.Email, Role: in.Role, Status: domain.IdentityActive}, nil
}

func (s *stubProfiles) GetIdentity(_ context.Context, subjectID string) (*ports.RemoteIdentity, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.identities[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return id, nil
}

func (s *stubProfiles) ValidateOwnerCandidate(_ context.Context, subjectID string) (*ports.OwnerValidation, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.owners[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *stubProfiles) SetRemoteStatus(_ context.Context, subjectID string, status domain.IdentityStatus) error {
	s.mu.Lock()
	s.statusCalls = append(s.statusCalls, subjectID+"="+string(status))
	s.mu.Unlock()
	return s.statusErr
}

// ---------------------------------------------------------------------------
// Stub resource directory
// ---------------------------------------------------------------------------

type stubResources struct {
	mu        sync.Mutex
	resources map[string]*ports.RemoteResource
	pushed    []float64

	pushErr error
	listErr error
}

func newStubResources(rs ...*ports.RemoteResource) *stubResources {
	s := &stubResources{resources: make(map[string]*ports.RemoteResource)}
	for _, r := range rs {
		s.resources[r.ID] = r
	}
	return s
}

func (s *stubResources) GetResource(_ context.Context, id string) (*ports.RemoteResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *stubResources) PushAggregate(_ context.Context, id string, value float64) error {
	if s.pushErr != nil {
		return s.pushErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Rating = value
	s.pushed = append(s.pushed, value)
	return nil
}

func (s *stubResources) ListIDsByOwner(_ context.Context, ownerSubjectID string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, r := range s.resources {
		if r.OwnerSubjectID == ownerSubjectID {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return nil, domain.ErrNotFound
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Stub identity directory
// ---------------------------------------------------------------------------

type stubIdentities struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *stubIdentities) MarkDeleted(_ context.Context, subjectID string) error {
	s.mu.Lock()
	s.calls = append(s.calls, subjectID)
	s.mu.Unlock()
	return s.err
}
