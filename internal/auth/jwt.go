package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/models"
)

// Claims defines the JWT claims structure.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// HasRole reports whether the token carries role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenManager issues and verifies HS256 bearer tokens with a single static key.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret []byte, ttl time.Duration, issuer string) *TokenManager {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenManager{key: key, ttl: ttl, issuer: issuer, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a new JWT for a given user.
func (m *TokenManager) Issue(user models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: user.Email,
		Roles: append([]string{}, user.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first, then expiry, and returns the claims.
// Signature and format failures yield apperr.ErrInvalidSignature. A token is
// valid up to and including its expiry instant; after it Verify returns
// apperr.ErrExpired.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		// The library rejects now == exp; expiry is inclusive here.
		jwt.WithLeeway(time.Nanosecond),
	)
	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperr.ErrExpired
	case err == nil:
		return nil, apperr.ErrInvalidSignature
	default:
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidSignature, err)
	}
}
