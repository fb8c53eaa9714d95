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

type GenreHTTP struct {
	Svc *service.GenreService
}

func (h *GenreHTTP) CreateGenre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "genre.create_genre")

	var req transport.GenreCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_genre_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	genre, err := h.Svc.CreateGenre(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_genre_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_genre_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create genre")
	}

	l.Info("create_genre_success", "genre_id", genre.ID)
	return c.JSON(http.StatusCreated, genre)
}

func (h *GenreHTTP) GetGenre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "genre.get_genre")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	genre, err := h.Svc.GetGenreByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_genre_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "genre not found")
		}
		l.Error("get_genre_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get genre")
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *GenreHTTP) GetGenres(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "genre.get_genres")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetAllGenres(ctx, offset, limit)
	if err != nil {
		l.Error("get_genres_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list genres")
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, offset, total))
}

func (h *GenreHTTP) UpdateGenre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "genre.update_genre")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.GenreUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_genre_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	genre, err := h.Svc.UpdateGenre(ctx, uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_genre_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "genre not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_genre_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_genre_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update genre")
		}
	}

	l.Info("update_genre_success", "genre_id", id)
	return c.JSON(http.StatusOK, genre)
}

func (h *GenreHTTP) DeleteGenre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "genre.delete_genre")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteGenre(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_genre_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "genre not found")
		}
		l.Error("delete_genre_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete genre")
	}

	l.Info("delete_genre_success", "genre_id", id)
	return c.NoContent(http.StatusNoContent)
}
