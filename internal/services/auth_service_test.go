package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/database/databasetest"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

type authFixture struct {
	db     *database.DB
	users  *services.UserService
	events *services.EventService
	tokens *auth.TokenManager
	svc    *services.AuthService
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	db := databasetest.New(t)
	f := authFixture{
		db:     db,
		users:  services.NewUserService(db),
		events: services.NewEventService(db, nil),
		tokens: auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour, "portfolio-test"),
	}
	f.svc = services.NewAuthService(f.users, auth.NewHasher(bcrypt.MinCost), f.tokens, f.events)
	return f
}

func (f authFixture) countUsers(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func (f authFixture) eventTypes(t *testing.T) []string {
	t.Helper()
	events, err := f.events.GetRecentEvents(context.Background(), 50)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func alice() services.RegisterInput {
	return services.RegisterInput{
		Email:     "Alice@Example.com",
		Password:  "Str0ngPass",
		FirstName: "Alice",
		LastName:  "Liddell",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.PasswordHash("Str0ngPass"), stored.PasswordHash)

	res, err := f.svc.Login(ctx, "  ALICE@example.com", "Str0ngPass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.HasRole(models.RoleUser))

	assert.Contains(t, f.eventTypes(t), services.EventUserRegistered)
	assert.Contains(t, f.eventTypes(t), services.EventLoginSucceeded)
}

func TestAuthService_RegisterSerializesWithoutHash(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.svc.Register(context.Background(), alice())
	require.NoError(t, err)

	body, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "$2a$")
	assert.NotContains(t, string(body), "Str0ngPass")
}

func TestAuthService_WeakPasswordPersistsNothing(t *testing.T) {
	f := newAuthFixture(t)

	for _, pw := range []string{"weak", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere", ""} {
		in := alice()
		in.Password = pw
		_, err := f.svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrWeakPassword, pw)
	}
	assert.Zero(t, f.countUsers(t))
}

func TestAuthService_OverlongPasswordIsWeak(t *testing.T) {
	f := newAuthFixture(t)

	in := alice()
	in.Password = "Aa1" + strings.Repeat("x", auth.MaxPasswordBytes)
	_, err := f.svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrWeakPassword)
	assert.Zero(t, f.countUsers(t))
}

func TestAuthService_DuplicateRegistration(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	in := alice()
	in.Email = " alice@EXAMPLE.com"
	_, err = f.svc.Register(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	assert.Equal(t, 1, f.countUsers(t))
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, "alice@example.com", "Wr0ngPass")
	_, unknownEmail := f.svc.Login(ctx, "nobody@example.com", "Str0ngPass")

	require.NoError(t, f.users.SetActive(ctx, user.ID, false))
	_, inactive := f.svc.Login(ctx, "alice@example.com", "Str0ngPass")

	for _, err := range []error{wrongPassword, unknownEmail, inactive} {
		require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), err.Error())
	}
	assert.Contains(t, f.eventTypes(t), services.EventLoginFailed)
}

// brokenHasher cannot produce digests but still verifies.
type brokenHasher struct {
	verified int
}

func (h *brokenHasher) Hash(string) (models.PasswordHash, error) {
	return "", errors.New("entropy source unavailable")
}

func (h *brokenHasher) Verify(string, models.PasswordHash) bool {
	h.verified++
	return false
}

func TestAuthService_PlaceholderHashFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	f := newAuthFixture(t)
	hasher := &brokenHasher{}
	svc := services.NewAuthService(f.users, hasher, f.tokens, nil)

	_, err := svc.Login(context.Background(), "nobody@example.com", "Str0ngPass")
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, 1, hasher.verified)
	assert.Contains(t, buf.String(), "placeholder hash")
	assert.Contains(t, buf.String(), "entropy source unavailable")
}

func TestAuthService_MeAndUpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	first := "Alicia"
	updated, err := f.svc.UpdateProfile(ctx, user.ID, models.UserPatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Empty(t, updated.PasswordHash)

	me, err := f.svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", me.FirstName)
	assert.Empty(t, me.PasswordHash)

	// Profile updates never touch the credential.
	_, err = f.svc.Login(ctx, "alice@example.com", "Str0ngPass")
	assert.NoError(t, err)

	_, err = f.svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, user.ID, "Wr0ngPass", "N3wPassword")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	err = f.svc.ChangePassword(ctx, user.ID, "Str0ngPass", "weak")
	assert.ErrorIs(t, err, apperr.ErrWeakPassword)

	require.NoError(t, f.svc.ChangePassword(ctx, user.ID, "Str0ngPass", "N3wPassword"))

	_, err = f.svc.Login(ctx, "alice@example.com", "Str0ngPass")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "alice@example.com", "N3wPassword")
	assert.NoError(t, err)
	assert.Contains(t, f.eventTypes(t), services.EventPasswordChanged)
}
