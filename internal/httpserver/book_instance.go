package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/middleware"
	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/internal/util"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type BookInstanceHTTP struct {
	Svc *service.BookInstanceService
}

func (h *BookInstanceHTTP) CreateInstance(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_instance.create_instance")

	bookID := util.ParseIntDefault(c.Param("id"), 0)
	if bookID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.BookInstanceCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_instance_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	file, err := formFile(c, "file")
	if err != nil {
		l.Warn("create_instance_failed", "status", 400, "reason", "cannot read file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	var username string
	if user := middleware.CurrentUser(c); user != nil {
		username = user.Username
	}

	instance, err := h.Svc.CreateBookInstance(ctx, uint(bookID), req, file, username)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("create_instance_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_instance_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			l.Error("create_instance_failed", "status", 400, "reason", "cannot upload cover", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "cannot upload cover")
		default:
			l.Error("create_instance_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create book instance")
		}
	}

	l.Info("create_instance_success", "instance_id", instance.ID)
	return c.JSON(http.StatusCreated, instance)
}

func (h *BookInstanceHTTP) GetInstance(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_instance.get_instance")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	instance, err := h.Svc.GetBookInstanceByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_instance_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book instance not found")
		}
		l.Error("get_instance_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get book instance")
	}
	return c.JSON(http.StatusOK, instance)
}

func (h *BookInstanceHTTP) GetBookInstances(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_instance.get_book_instances")

	bookID := util.ParseIntDefault(c.Param("id"), 0)
	if bookID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	book, err := h.Svc.GetBookInstances(ctx, uint(bookID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_book_instances_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		l.Error("get_book_instances_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list book instances")
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookInstanceHTTP) UpdateInstance(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_instance.update_instance")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.BookInstanceUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_instance_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	file, err := formFile(c, "file")
	if err != nil {
		l.Warn("update_instance_failed", "status", 400, "reason", "cannot read file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	var username string
	if user := middleware.CurrentUser(c); user != nil {
		username = user.Username
	}

	instance, err := h.Svc.UpdateBookInstance(ctx, uint(id), req, file, username)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_instance_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book instance not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_instance_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			l.Error("update_instance_failed", "status", 400, "reason", "cannot upload cover", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "cannot upload cover")
		default:
			l.Error("update_instance_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update book instance")
		}
	}

	l.Info("update_instance_success", "instance_id", id)
	return c.JSON(http.StatusOK, instance)
}

func (h *BookInstanceHTTP) DeleteInstance(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_instance.delete_instance")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteBookInstance(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_instance_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book instance not found")
		}
		l.Error("delete_instance_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete book instance")
	}

	l.Info("delete_instance_success", "instance_id", id)
	return c.NoContent(http.StatusNoContent)
}
