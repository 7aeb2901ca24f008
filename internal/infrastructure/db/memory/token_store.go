// Package memory holds process-local implementations of the persistence ports.
// They back single-instance deployments and the end-to-end tests.
package memory

import (
	"context"
	"sync"
	"time"
)

// TokenStore is the in-memory active-token set. It is unbounded and not shared
// between processes: with several identity instances, or after a restart,
// revocation is only honored by the instance that saw the logout.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]struct{})}
}

// Activate adds token to the set. The ttl is ignored; expired tokens are
// rejected by signature validation before the set is consulted.
func (s *TokenStore) Activate(_ context.Context, token string, _ time.Duration) {
	if token == "" {
		return
	}
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
}

func (s *TokenStore) Revoke(_ context.Context, token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *TokenStore) IsActive(_ context.Context, token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	_, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok
}
