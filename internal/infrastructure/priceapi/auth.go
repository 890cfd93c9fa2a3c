package priceapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshBefore is how long before expiry a cached token is replaced.
const refreshBefore = 30 * time.Second

// TokenConfig holds service token configuration.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// DefaultTokenConfig returns default service token configuration.
func DefaultTokenConfig(secret string) TokenConfig {
	return TokenConfig{
		Secret:   secret,
		Issuer:   "pricetable",
		Audience: "price-api",
		TTL:      5 * time.Minute,
	}
}

// TokenSource mints HS256 service tokens for the price API and reuses them
// until shortly before they expire.
type TokenSource struct {
	config TokenConfig
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a token source.
func NewTokenSource(config TokenConfig) *TokenSource {
	return &TokenSource{config: config, now: time.Now}
}

// Token returns a valid bearer token.
func (s *TokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Before(s.expiresAt.Add(-refreshBefore)) {
		return s.token, nil
	}

	expiresAt := now.Add(s.config.TTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.config.Issuer,
		Subject:   s.config.Issuer,
		Audience:  jwt.ClaimStrings{s.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	s.token = signed
	s.expiresAt = expiresAt
	return signed, nil
}
