package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TokenStore is the shared active-token set backed by Redis. Every identity
// instance and the gateway see the same set, so a logout is honored
// everywhere. Entries expire with the token.
// Key format: token:active:<sha256(token)>
type TokenStore struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client, log zerolog.Logger) *TokenStore {
	return &TokenStore{client: client, log: log}
}

// Activate records token as live until ttl elapses.
func (s *TokenStore) Activate(ctx context.Context, token string, ttl time.Duration) {
	if token == "" {
		return
	}
	if err := s.client.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		s.log.Error().Err(err).Msg("token activate failed")
	}
}

// Revoke removes token from the live set.
func (s *TokenStore) Revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		s.log.Error().Err(err).Msg("token revoke failed")
	}
}

// IsActive reports whether token is live. A Redis failure reads as inactive.
func (s *TokenStore) IsActive(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("token lookup failed, treating token as inactive")
		return false
	}
	return n > 0
}

func (s *TokenStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "token:active:" + hex.EncodeToString(sum[:])
}
