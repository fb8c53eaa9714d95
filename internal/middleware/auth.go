package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/pkg/logging"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

const userContextKey = "user"

// RequireAuth validates the bearer token and loads the authenticated user
// into the echo context under the "user" key.
func RequireAuth(tok *tokens.Service, r *repo.GormRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := tok.Verify(token)
			if err != nil {
				l.Info("auth_rejected", "status", 401, "reason", "invalid token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			user, err := r.GetUserByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					l.Info("auth_rejected", "status", 401, "reason", "user no longer exists", "username", claims.Subject)
					return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
			}
			if user.IsBlocked {
				l.Info("auth_rejected", "status", 403, "reason", "user is blocked", "username", user.Username)
				return echo.NewHTTPError(http.StatusForbidden, "user is blocked")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil || user.Role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user loaded by RequireAuth, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
