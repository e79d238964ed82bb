package models

import (
	"strings"
	"time"
)

// Account roles.
const (
	// RoleUser is granted to every registered account.
	RoleUser = "user"
	// RoleAdmin is granted at registration to configured admin emails.
	RoleAdmin = "admin"
)

// PasswordHash is a one-way digest produced by the password hasher. It is a
// distinct type so that plaintext strings cannot be passed where a digest is
// expected without an explicit conversion.
type PasswordHash string

// User represents a user account in the system.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash PasswordHash `json:"-"` // Never expose this to the client
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Avatar       string       `json:"avatar,omitempty"`
	IsActive     bool         `json:"isActive"`
	Roles        []string     `json:"roles"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// UserProfile holds the display fields supplied at registration.
type UserProfile struct {
	FirstName string
	LastName  string
	Avatar    string
}

// UserPatch is a partial update of the profile fields. It deliberately has no
// password or role field: those change only through dedicated operations.
type UserPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Avatar    *string `json:"avatar"`
}

// Apply returns a copy of u with the non-nil patch fields merged in.
func (u User) Apply(p UserPatch) User {
	out := u
	out.Roles = append([]string(nil), u.Roles...)
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.Avatar != nil {
		out.Avatar = *p.Avatar
	}
	return out
}

// Public returns the user without its password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
