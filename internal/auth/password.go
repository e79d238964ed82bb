package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/models"
)

const (
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
	// MinPasswordLength is the policy minimum in characters.
	MinPasswordLength = 8
)

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs outside bcrypt's range fall back to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (models.PasswordHash, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", apperr.ErrInvalidInput)
	}
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", apperr.ErrInvalidInput, MaxPasswordBytes)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return models.PasswordHash(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests never match.
func (h *Hasher) Verify(plaintext string, digest models.PasswordHash) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// CheckPasswordPolicy enforces the registration password policy: at least
// MinPasswordLength characters with a lowercase letter, an uppercase letter
// and a digit.
func CheckPasswordPolicy(plaintext string) error {
	var lower, upper, digit bool
	n := 0
	for _, r := range plaintext {
		n++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if n < MinPasswordLength || !lower || !upper || !digit {
		return apperr.ErrWeakPassword
	}
	return nil
}
