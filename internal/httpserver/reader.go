package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/internal/util"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type ReaderHTTP struct {
	Svc *service.ReaderService
}

func (h *ReaderHTTP) CreateReader(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reader.create_reader")

	var req transport.ReaderCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_reader_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	reader, err := h.Svc.CreateReader(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_reader_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_reader_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create reader")
	}

	l.Info("create_reader_success", "reader_id", reader.ID)
	return c.JSON(http.StatusCreated, reader)
}

func (h *ReaderHTTP) GetReader(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reader.get_reader")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	reader, err := h.Svc.GetReaderByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_reader_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "reader not found")
		}
		l.Error("get_reader_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get reader")
	}
	return c.JSON(http.StatusOK, reader)
}

func (h *ReaderHTTP) GetReaders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reader.get_readers")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetAllReaders(ctx, offset, limit)
	if err != nil {
		l.Error("get_readers_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list readers")
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, offset, total))
}

func (h *ReaderHTTP) UpdateReader(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reader.update_reader")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.ReaderUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_reader_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	reader, err := h.Svc.UpdateReader(ctx, uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_reader_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "reader not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_reader_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_reader_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update reader")
		}
	}

	l.Info("update_reader_success", "reader_id", id)
	return c.JSON(http.StatusOK, reader)
}

func (h *ReaderHTTP) DeleteReader(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reader.delete_reader")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteReader(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_reader_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "reader not found")
		}
		l.Error("delete_reader_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete reader")
	}

	l.Info("delete_reader_success", "reader_id", id)
	return c.NoContent(http.StatusNoContent)
}
