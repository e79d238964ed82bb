package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/models"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (models.PasswordHash, error)
	Verify(plaintext string, digest models.PasswordHash) bool
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// RegisterInput is the registration request after shape validation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Avatar    string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AuthServiceProvider defines the interface for authentication flows.
type AuthServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Me(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// AuthService orchestrates registration and login over the credential store,
// the password hasher and the token issuer.
type AuthService struct {
	users  UserServiceProvider
	hasher PasswordHasher
	tokens TokenIssuer
	events EventServiceProvider

	dummyOnce sync.Once
	dummyHash models.PasswordHash
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(users UserServiceProvider, hasher PasswordHasher, tokens TokenIssuer, events EventServiceProvider) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	email := models.NormalizeEmail(in.Email)
	if err := auth.CheckPasswordPolicy(in.Password); err != nil {
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			return models.User{}, apperr.ErrWeakPassword
		}
		return models.User{}, err
	}

	user, err := s.users.CreateUser(ctx, email, hash, models.UserProfile{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Avatar:    in.Avatar,
	})
	if err != nil {
		return models.User{}, err
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	record(ctx, s.events, EventUserRegistered, LevelInfo, fmt.Sprintf("User %s registered", user.Email), &user.ID)
	return user.Public(), nil
}

// Login verifies credentials and issues a token. Unknown email, inactive
// account and wrong password all return apperr.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = models.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		// Spend the same bcrypt work as a real comparison.
		s.hasher.Verify(password, s.placeholderHash())
		return LoginResult{}, s.loginFailed(ctx, email, "unknown email", nil)
	case err != nil:
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, s.loginFailed(ctx, email, "wrong password", &user.ID)
	}
	if !user.IsActive {
		return LoginResult{}, s.loginFailed(ctx, email, "inactive account", &user.ID)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	record(ctx, s.events, EventLoginSucceeded, LevelInfo, fmt.Sprintf("User %s logged in", user.Email), &user.ID)
	return LoginResult{Token: token, User: user.Public()}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, reason string, userID *string) error {
	log.Warn().Str("email", email).Str("reason", reason).Msg("Failed authentication attempt")
	record(ctx, s.events, EventLoginFailed, LevelWarn, fmt.Sprintf("Failed login for %s", email), userID)
	return apperr.ErrInvalidCredentials
}

func (s *AuthService) placeholderHash() models.PasswordHash {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("placeholder-Passw0rd")
		if err != nil {
			log.Error().Err(err).Msg("Failed to prepare placeholder hash; unknown-email logins skip bcrypt")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Me returns the account behind a token subject.
func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

// UpdateProfile changes display fields only.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (models.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

// ChangePassword verifies the current password, then hashes and stores the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperr.ErrInvalidCredentials
	}
	if err := auth.CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			return apperr.ErrWeakPassword
		}
		return err
	}
	if err := s.users.SetPasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	record(ctx, s.events, EventPasswordChanged, LevelInfo, fmt.Sprintf("User %s changed password", user.Email), &user.ID)
	return nil
}
