// Package token issues and validates signed, time-limited identity assertions.
// Tokens are stateless: validity is purely cryptographic plus an expiry check,
// nothing is persisted or cached between calls.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum signing key length in bytes for HS256.
const MinSecretLen = 32

// Config holds the signing parameters for the token service.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Identity is the subject and role set asserted by a validated token.
type Identity struct {
	Subject string
	Roles   []string
}

// HasAnyRole reports whether the identity holds at least one of the given roles.
func (id Identity) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range id.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Claims includes the registered JWT claims plus the roles claim used for
// authorization decisions.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Service signs and validates HS256 bearer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// New creates the token service. It fails if the signing key is shorter than
// MinSecretLen or the TTL is not positive.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, fmt.Errorf("token: signing key must be at least %d bytes, got %d", MinSecretLen, len(cfg.Secret))
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token: TTL must be positive, got %s", cfg.TTL)
	}
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// WithClock replaces the service clock. Used by tests to simulate expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue produces a signed token asserting the given subject and roles, valid
// from now until now plus the configured TTL.
func (s *Service) Issue(username string, roles []string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Roles: roles,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of a token. Any failure, whether
// a malformed token, a bad signature, an unexpected algorithm, or expiry,
// collapses to ok=false; callers treat them all as unauthenticated.
func (s *Service) Validate(tokenString string) (Identity, bool) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return Identity{}, false
	}
	if claims.Subject == "" {
		return Identity{}, false
	}
	return Identity{Subject: claims.Subject, Roles: claims.Roles}, true
}
