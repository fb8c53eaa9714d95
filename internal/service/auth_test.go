package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/blacklist"
	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/hash"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

type fakePublisher struct {
	events []any
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	p.events = append(p.events, event)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestBlacklist(t *testing.T) *blacklist.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return blacklist.New(rdb)
}

func newTestAuthService(t *testing.T) (*AuthService, *fakePublisher) {
	t.Helper()

	producer := &fakePublisher{}
	svc := &AuthService{
		Repo:      repo.New(newTestDB(t)),
		Tokens:    tokens.NewService([]byte("test-jwt-secret"), 15*time.Minute, 24*time.Hour, 30*time.Minute),
		Blacklist: newTestBlacklist(t),
		Producer:  producer,
		ResetLink: "http://localhost:8080/auth/reset-password",
	}
	return svc, producer
}

func signupReq(username, email string) transport.SignupRequest {
	return transport.SignupRequest{
		Name:     "Test",
		Surname:  "User",
		Username: username,
		Password: "Secret12345",
		Email:    email,
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupReq("alice", "alice@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleLibrarian, user.Role)
	assert.NotEqual(t, "Secret12345", user.PasswordHash)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "Secret12345"))
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.SignupRequest
	}{
		{name: "empty username", req: transport.SignupRequest{Email: "a@b.c", Password: "Secret12345"}},
		{name: "empty email", req: transport.SignupRequest{Username: "u", Password: "Secret12345"}},
		{name: "short password", req: transport.SignupRequest{Username: "u", Email: "a@b.c", Password: "short"}},
		{name: "unknown role", req: transport.SignupRequest{Username: "u", Email: "a@b.c", Password: "Secret12345", Role: "superuser"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Signup(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Signup_DuplicateUsernameAndEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("bob", "bob@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupReq("bob", "other@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Contains(t, err.Error(), "username")

	_, err = svc.Signup(ctx, signupReq("other", "bob@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Contains(t, err.Error(), "email")
}

func TestAuthService_Login_SuccessAndFailure(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("carol", "carol@example.com"))
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "carol", "Secret12345")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, TokenTypeBearer, pair.TokenType)

	claims, err := svc.Tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Subject)
	assert.Equal(t, models.RoleLibrarian, claims.Role)

	_, err = svc.Login(ctx, "carol", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "Secret12345")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("dave", "dave@example.com"))
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "dave", "Secret12345")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The old token is consumed by the rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)

	// The new one still works.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupReq("eve", "eve@example.com"))
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "eve", "Secret12345")
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DeleteUser(ctx, user.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_Logout_BlacklistsRefreshToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("frank", "frank@example.com"))
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "frank", "Secret12345")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, producer := newTestAuthService(t)

	_, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, producer.events)
}

func TestAuthService_ForgotAndResetPassword_Flow(t *testing.T) {
	t.Parallel()

	svc, producer := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("grace", "grace@example.com"))
	require.NoError(t, err)

	resetToken, err := svc.ForgotPassword(ctx, "grace@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, resetToken)
	require.Len(t, producer.events, 1)

	event, ok := producer.events[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "grace@example.com", event["email"])
	assert.Contains(t, event["reset_link"], resetToken)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "NewSecret999"))

	_, err = svc.Login(ctx, "grace", "Secret12345")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	pair, err := svc.Login(ctx, "grace", "NewSecret999")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestAuthService_ResetPassword_TokenIsSingleUse(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("heidi", "heidi@example.com"))
	require.NoError(t, err)

	resetToken, err := svc.ForgotPassword(ctx, "heidi@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "FirstReset123"))

	err = svc.ResetPassword(ctx, resetToken, "SecondReset123")
	assert.ErrorIs(t, err, ErrTokenBlacklisted)

	// The first reset stands.
	_, err = svc.Login(ctx, "heidi", "FirstReset123")
	require.NoError(t, err)
}

// addFailingBlacklist answers lookups but cannot store anything.
type addFailingBlacklist struct {
	*blacklist.Store
}

func (b *addFailingBlacklist) Add(context.Context, string, time.Duration) error {
	return errors.New("redis: connection refused")
}

func TestAuthService_ResetPassword_SucceedsWhenConsumeFails(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq("judy", "judy@example.com"))
	require.NoError(t, err)

	resetToken, err := svc.ForgotPassword(ctx, "judy@example.com")
	require.NoError(t, err)

	// The blacklist goes write-only-broken between issuing the link and
	// consuming it. The password change must not be reported as failed.
	svc.Blacklist = &addFailingBlacklist{Store: svc.Blacklist.(*blacklist.Store)}
	require.NoError(t, svc.ResetPassword(ctx, resetToken, "NewSecret123"))

	_, err = svc.Login(ctx, "judy", "NewSecret123")
	require.NoError(t, err)
}
