package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avkozlov/library-backend/internal/middleware"
	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/internal/util"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	user, err := h.Svc.GetUserByID(ctx, uint(id), middleware.CurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			l.Warn("get_user_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("get_user_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		default:
			l.Error("get_user_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
		}
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetAllUsers(ctx, offset, limit, middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			l.Warn("get_users_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		l.Error("get_users_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}

	return c.JSON(http.StatusOK, listResponse(items, page, limit, offset, total))
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_me")

	var req transport.UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_me_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUser(ctx, req, middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("update_me_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("update_me_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
	}

	l.Info("update_me_success", "username", user.Username)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.UserAdminUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUserByAdmin(ctx, uint(id), req, middleware.CurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			l.Warn("update_user_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("update_user_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_user_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_user_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
		}
	}

	l.Info("update_user_success", "user_id", id)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteUser(ctx, uint(id), middleware.CurrentUser(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			l.Warn("delete_user_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("delete_user_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		default:
			l.Error("delete_user_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete user")
		}
	}

	l.Info("delete_user_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
