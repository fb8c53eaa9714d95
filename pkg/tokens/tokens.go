// Package tokens issues and verifies the signed tokens the auth flow runs on:
// short-lived access tokens, longer-lived refresh tokens and single-purpose
// password-reset tokens. One secret, HS256, for the whole process lifetime.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	UserID uint   `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

func NewService(secret []byte, accessTTL, refreshTTL, resetTTL time.Duration) *Service {
	return &Service{
		secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		ResetTTL:   resetTTL,
	}
}

func (s *Service) issue(subject string, userID uint, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) IssueAccess(username string, userID uint, role string) (string, error) {
	return s.issue(username, userID, role, s.AccessTTL)
}

func (s *Service) IssueRefresh(username string, userID uint, role string) (string, error) {
	return s.issue(username, userID, role, s.RefreshTTL)
}

// IssueReset binds a password-reset intent to an email address.
func (s *Service) IssueReset(email string) (string, error) {
	return s.issue(email, 0, "", s.ResetTTL)
}

// Verify checks signature and expiry and returns the embedded claims.
// Callers dispatch on ErrExpiredToken / ErrInvalidToken.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ExpiryUnverified extracts the exp claim without checking the signature.
// Logout only needs the expiry to size the blacklist TTL.
func (s *Service) ExpiryUnverified(tokenStr string) (time.Time, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}
