// Package apperr holds the error taxonomy shared by the auth core, the
// services and the HTTP layer.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput indicates a malformed request shape.
	ErrInvalidInput = errors.New("invalid input")
	// ErrWeakPassword indicates the password does not satisfy the policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain an uppercase letter, a lowercase letter and a digit")
	// ErrDuplicateEmail indicates the normalized email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email, inactive account and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, invalid or expired bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid token that lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidSignature indicates a token that failed signature or format checks.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired indicates a correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrStoreUnavailable is a transient storage fault; callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation other than a duplicate email.
	ErrConflict = errors.New("conflict")
)

// FieldError describes one failed input check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by the per-shape validators. It matches
// ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
