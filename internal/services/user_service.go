package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// UserServiceProvider defines the credential store. It is the only writer of
// user records.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, email string, hash models.PasswordHash, profile models.UserProfile) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
	SetPasswordHash(ctx context.Context, id string, hash models.PasswordHash) error
	SetActive(ctx context.Context, id string, active bool) error
}

// UserService persists user accounts.
type UserService struct {
	db     *database.DB
	now    func() time.Time
	admins map[string]struct{}
}

// NewUserService creates a new UserService.
func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db, now: time.Now, admins: map[string]struct{}{}}
}

// WithAdmins marks emails that receive the admin role when their account is
// created. It must be called before the service is shared.
func (s *UserService) WithAdmins(emails []string) *UserService {
	for _, e := range emails {
		if e = models.NormalizeEmail(e); e != "" {
			s.admins[e] = struct{}{}
		}
	}
	return s
}

func (s *UserService) rolesFor(email string) []string {
	if _, ok := s.admins[email]; ok {
		return []string{models.RoleUser, models.RoleAdmin}
	}
	return []string{models.RoleUser}
}

const userColumns = `id, email, password_hash, first_name, last_name, avatar, is_active, roles_json, created_at, updated_at`

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var hash, roles string
	var avatar sql.NullString
	err := row.Scan(&user.ID, &user.Email, &hash, &user.FirstName, &user.LastName, &avatar,
		&user.IsActive, &roles, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = models.PasswordHash(hash)
	user.Avatar = avatar.String
	user.Roles = decodeStrings(roles)
	return user, nil
}

// CreateUser inserts a new account. Uniqueness of the normalized email is
// enforced by the users.email UNIQUE index, so concurrent registrations for
// one address resolve to a single row and apperr.ErrDuplicateEmail for the rest.
func (s *UserService) CreateUser(ctx context.Context, email string, hash models.PasswordHash, profile models.UserProfile) (models.User, error) {
	if hash == "" {
		return models.User{}, fmt.Errorf("%w: missing password hash", apperr.ErrInvalidInput)
	}
	now := s.now().UTC()
	email = models.NormalizeEmail(email)
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Avatar:       profile.Avatar,
		IsActive:     true,
		Roles:        s.rolesFor(email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, string(user.PasswordHash), user.FirstName, user.LastName, nullString(user.Avatar),
		user.IsActive, encodeStrings(user.Roles), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		err = database.Classify(err)
		if errors.Is(err, apperr.ErrConflict) {
			return models.User{}, apperr.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by normalized email, including the password hash.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, models.NormalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", database.Classify(err))
	}
	return user, nil
}

// FindByID retrieves a single user by their ID.
func (s *UserService) FindByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("find user %s: %w", id, database.Classify(err))
	}
	return user, nil
}

// UpdateProfile merges patch into the stored profile fields. The password
// hash column is not part of the statement.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	next := current.Apply(patch)
	next.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, avatar = ?, updated_at = ? WHERE id = ?`,
		next.FirstName, next.LastName, nullString(next.Avatar), next.UpdatedAt, id)
	if err != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	return next, nil
}

// SetPasswordHash replaces the stored digest.
func (s *UserService) SetPasswordHash(ctx context.Context, id string, hash models.PasswordHash) error {
	if hash == "" {
		return fmt.Errorf("%w: missing password hash", apperr.ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		string(hash), s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set password for user %s: %w", id, database.Classify(err))
	}
	return expectOneRow(res)
}

// SetActive enables or disables an account. Tokens already issued stay valid
// until they expire.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set active for user %s: %w", id, database.Classify(err))
	}
	return expectOneRow(res)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffecter) error {
	n, err := res.RowsAffected()
	if err != nil {
		return database.Classify(err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
