package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/hash"
	"github.com/avkozlov/library-backend/pkg/logging"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

const TokenTypeBearer = "bearer"

// Publisher delivers the password-reset notification. Publishing is
// best-effort: a failure is logged, never surfaced to the client.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// TokenBlacklist invalidates rotated refresh tokens and consumed reset
// tokens. Backed by redis in production.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

type AuthService struct {
	Repo      *repo.GormRepo
	Tokens    *tokens.Service
	Blacklist TokenBlacklist
	Producer  Publisher
	ResetLink string
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: username, email and a password of at least 8 characters are required", ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = models.RoleLibrarian
	}
	if role != models.RoleAdmin && role != models.RoleLibrarian {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	// Username first, then email: first match wins in the error message.
	if _, err := s.Repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: user with username '%s' already exists", ErrUserAlreadyExists, req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("signup_failed", "status", 400, "reason", "username lookup failed", "error", err)
		return nil, ErrStoreUnavailable
	}
	if _, err := s.Repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user with email '%s' already exists", ErrUserAlreadyExists, req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("signup_failed", "status", 400, "reason", "email lookup failed", "error", err)
		return nil, ErrStoreUnavailable
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Username:     req.Username,
		PasswordHash: pwHash,
		Email:        req.Email,
		Role:         role,
	}
	created, err := s.Repo.CreateUser(ctx, user)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user with username '%s' already exists", ErrUserAlreadyExists, req.Username)
		}
		l.Error("signup_failed", "status", 400, "reason", "cannot persist user", "error", err)
		return nil, ErrStoreUnavailable
	}

	l.Info("signup_successful", "username", created.Username)
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 400, "error", err)
		return nil, ErrStoreUnavailable
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user)
}

// Refresh rotates a refresh token. The order of checks is load-bearing: the
// blacklist check must precede signature verification, because a
// still-valid-but-rotated token verifies successfully.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	listed, err := s.Blacklist.Contains(ctx, refreshToken)
	if err != nil {
		l.Error("refresh_failed", "status", 400, "reason", "blacklist unreachable", "error", err)
		return nil, ErrStoreUnavailable
	}
	if listed {
		l.Warn("refresh_failed", "status", 401, "reason", "token already rotated or revoked")
		return nil, ErrTokenBlacklisted
	}

	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, err
	}

	user, err := s.Repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "subject no longer exists")
			return nil, ErrAuthenticationFailed
		}
		l.Error("refresh_failed", "status", 400, "error", err)
		return nil, ErrStoreUnavailable
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	// TTL comes from the old token's own exp claim, so the entry outlives the
	// token by nothing and never less.
	if err := s.Blacklist.Add(ctx, refreshToken, time.Until(claims.ExpiresAt.Time)); err != nil {
		l.Error("refresh_failed", "status", 400, "reason", "cannot blacklist rotated token", "error", err)
		return nil, ErrStoreUnavailable
	}

	l.Info("refresh_successful", "username", user.Username)
	return pair, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue_pair")

	access, err := s.Tokens.IssueAccess(user.Username, user.ID, user.Role)
	if err != nil {
		l.Error("issue_failed", "status", 500, "error", err)
		return nil, err
	}
	refresh, err := s.Tokens.IssueRefresh(user.Username, user.ID, user.Role)
	if err != nil {
		l.Error("issue_failed", "status", 500, "error", err)
		return nil, err
	}
	return &transport.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenTypeBearer,
	}, nil
}

// ForgotPassword issues a reset token and notifies the queue with the reset
// link. A dead broker does not fail the request; the token is still returned.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	if _, err := s.Repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user with email '%s' does not exist", ErrUserNotFound, email)
		}
		l.Error("forgot_password_failed", "status", 400, "error", err)
		return "", ErrStoreUnavailable
	}

	resetToken, err := s.Tokens.IssueReset(email)
	if err != nil {
		l.Error("forgot_password_failed", "status", 500, "error", err)
		return "", err
	}

	if s.Producer != nil {
		event := map[string]any{
			"email":      email,
			"reset_link": s.ResetLink + "?reset_token=" + resetToken,
		}
		if err := s.Producer.Publish(ctx, email, event); err != nil {
			l.Error("reset_notification_failed", "reason", "queue publish failed", "error", err)
		}
	}

	l.Info("forgot_password_successful")
	return resetToken, nil
}

// VerifyResetToken validates a reset token for the form rendering and the
// actual reset. Consumed tokens are held in the same blacklist as rotated
// refresh tokens, so a reset link works exactly once.
func (s *AuthService) VerifyResetToken(ctx context.Context, resetToken string) (*tokens.Claims, error) {
	listed, err := s.Blacklist.Contains(ctx, resetToken)
	if err != nil {
		logging.FromContext(ctx).Error("reset_token_check_failed", "status", 400, "error", err)
		return nil, ErrStoreUnavailable
	}
	if listed {
		return nil, ErrTokenBlacklisted
	}
	return s.Tokens.Verify(resetToken)
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	claims, err := s.VerifyResetToken(ctx, resetToken)
	if err != nil {
		l.Warn("reset_password_failed", "status", 401, "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Repo.UpdatePassword(ctx, claims.Subject, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user with email '%s' does not exist", ErrUserNotFound, claims.Subject)
		}
		l.Error("reset_password_failed", "status", 400, "error", err)
		return ErrStoreUnavailable
	}

	// Consume the token: a second reset with the same link must fail. The
	// password is already changed at this point, so a blacklist failure is
	// logged and the reset still succeeds, the token just stays live until
	// it expires.
	if err := s.Blacklist.Add(ctx, resetToken, time.Until(claims.ExpiresAt.Time)); err != nil {
		l.Error("reset_token_consume_failed", "error", err)
	}

	l.Info("reset_password_successful")
	return nil
}

// Logout blacklists the presented refresh token for its remaining validity.
// Only the exp claim matters here, so the signature is not checked.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	exp, err := s.Tokens.ExpiryUnverified(refreshToken)
	if err != nil {
		l.Warn("logout_failed", "status", 401, "reason", "no expiry claim", "error", err)
		return err
	}

	if err := s.Blacklist.Add(ctx, refreshToken, time.Until(exp)); err != nil {
		l.Error("logout_failed", "status", 400, "reason", "cannot blacklist token", "error", err)
		return ErrStoreUnavailable
	}

	l.Info("logout_successful")
	return nil
}
