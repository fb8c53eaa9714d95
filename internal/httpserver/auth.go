package httpserver

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/logging"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signup(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrValidation):
			l.Warn("signup_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("signup_failed", "status", 500, "reason", "cannot create user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
		}
	}

	l.Info("signup_success", "username", user.Username)
	return c.JSON(http.StatusCreated, user)
}

// Login accepts form-encoded credentials and returns a bearer token pair.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	pair, err := h.Svc.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "username", username, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	l.Info("login_success", "username", username)
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		l.Warn("refresh_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token is required")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenBlacklisted),
			errors.Is(err, service.ErrAuthenticationFailed),
			errors.Is(err, tokens.ErrInvalidToken),
			errors.Is(err, tokens.ErrExpiredToken):
			l.Warn("refresh_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or revoked refresh token")
		default:
			l.Error("refresh_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot refresh tokens")
		}
	}

	l.Info("refresh_success")
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		l.Warn("forgot_password_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	token, err := h.Svc.ForgotPassword(ctx, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("forgot_password_failed", "status", 404, "email", req.Email, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user with this email does not exist")
		}
		l.Error("forgot_password_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot issue reset token")
	}

	l.Info("forgot_password_success", "email", req.Email)
	return c.JSON(http.StatusOK, transport.ForgotPasswordResponse{
		ResetToken: token,
		Message:    "reset link sent to your email",
	})
}

var resetFormTmpl = template.Must(template.New("reset_form").Parse(`<!DOCTYPE html>
<html>
<head><title>Reset password</title></head>
<body>
  <form method="post" action="/auth/reset-password">
    <input type="hidden" name="reset_token" value="{{.Token}}">
    <label>New password <input type="password" name="new_password"></label>
    <label>Confirm new password <input type="password" name="confirm_new_password"></label>
    <button type="submit">Reset password</button>
  </form>
</body>
</html>
`))

// ResetPasswordForm renders an HTML form carrying the reset token, the
// target of the link sent by email.
func (h *AuthHTTP) ResetPasswordForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password_form")

	token := c.QueryParam("reset_token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reset_token is required")
	}
	if _, err := h.Svc.VerifyResetToken(ctx, token); err != nil {
		l.Warn("reset_form_rejected", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired reset token")
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return resetFormTmpl.Execute(c.Response(), map[string]string{"Token": token})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ResetToken == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reset_token and new_password are required")
	}
	if req.NewPassword != req.ConfirmNewPassword {
		l.Warn("reset_password_failed", "status", 400, "reason", "passwords do not match")
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	if err := h.Svc.ResetPassword(ctx, req.ResetToken, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenBlacklisted),
			errors.Is(err, service.ErrAuthenticationFailed),
			errors.Is(err, tokens.ErrInvalidToken),
			errors.Is(err, tokens.ErrExpiredToken):
			l.Warn("reset_password_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired reset token")
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("reset_password_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user does not exist")
		case errors.Is(err, service.ErrValidation):
			l.Warn("reset_password_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("reset_password_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot reset password")
		}
	}

	l.Info("reset_password_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "password updated"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		l.Warn("logout_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token is required")
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			l.Warn("logout_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}
