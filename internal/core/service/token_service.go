package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/api/metrics"
	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// DefaultTokenTTL is the lifetime of a token when none is configured.
const DefaultTokenTTL = time.Hour

const tokenIssuer = "venuehub-identity"

// tokenClaims is the JWT payload: the subject id travels in "sub" and the
// single role claim in "role".
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens and tracks which of
// them are live in a TokenStore.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	store  ports.TokenStore
	log    zerolog.Logger
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, store ports.TokenStore, log zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// TTL is the fixed lifetime of every issued token.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subjectID with role, expiring TTL from now.
func (s *TokenService) Issue(subjectID string, role domain.Role) (string, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" || role == "" {
		return "", fmt.Errorf("issue token: %w: subject id and role are required", domain.ErrInvalidInput)
	}

	now := s.now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(role)).Inc()
	return signed, nil
}

// Parse verifies the signature and shape of token and returns its claims.
// Expiry is reported, not enforced; use IsValid for that.
func (s *TokenService) Parse(token string) (ports.TokenClaims, error) {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return ports.TokenClaims{}, err
	}
	return toPortClaims(claims), nil
}

// IsValid reports whether token verifies and has not expired. Revocation is
// not consulted.
func (s *TokenService) IsValid(token string) bool {
	claims, err := s.parse(token, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return false
	}
	return claims.Subject != "" && claims.Role != ""
}

func (s *TokenService) parse(token string, opts ...jwt.ParserOption) (*tokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMalformedToken
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}

func toPortClaims(c *tokenClaims) ports.TokenClaims {
	return ports.TokenClaims{
		SubjectID: c.Subject,
		Role:      domain.Role(c.Role),
		IssuedAt:  c.IssuedAt.Time.UTC(),
		ExpiresAt: c.ExpiresAt.Time.UTC(),
	}
}

// Activate marks token live. Blank tokens are ignored.
func (s *TokenService) Activate(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	s.store.Activate(ctx, token, s.ttl)
}

// Revoke removes token from the live set. Blank tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	s.store.Revoke(ctx, token)
	metrics.TokensRevokedTotal.Inc()
}

// IsActive reports whether token is in the live set. A revoked token is never
// active even while its signature still verifies.
func (s *TokenService) IsActive(ctx context.Context, token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	return s.store.IsActive(ctx, token)
}
