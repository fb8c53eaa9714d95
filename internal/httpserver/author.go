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

type AuthorHTTP struct {
	Svc *service.AuthorService
}

func (h *AuthorHTTP) CreateAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "author.create_author")

	var req transport.AuthorCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_author_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	file, err := formFile(c, "file")
	if err != nil {
		l.Warn("create_author_failed", "status", 400, "reason", "cannot read file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	author, err := h.Svc.CreateAuthor(ctx, req, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_author_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			l.Error("create_author_failed", "status", 400, "reason", "cannot upload photo", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "cannot upload photo")
		default:
			l.Error("create_author_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create author")
		}
	}

	l.Info("create_author_success", "author_id", author.ID)
	return c.JSON(http.StatusCreated, author)
}

func (h *AuthorHTTP) GetAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "author.get_author")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	author, err := h.Svc.GetAuthorByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_author_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "author not found")
		}
		l.Error("get_author_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get author")
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHTTP) GetAuthors(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "author.get_authors")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetAllAuthors(ctx, offset, limit)
	if err != nil {
		l.Error("get_authors_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list authors")
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, offset, total))
}

func (h *AuthorHTTP) UpdateAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "author.update_author")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.AuthorUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_author_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	file, err := formFile(c, "file")
	if err != nil {
		l.Warn("update_author_failed", "status", 400, "reason", "cannot read file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	author, err := h.Svc.UpdateAuthor(ctx, uint(id), req, file)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_author_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "author not found")
		case errors.Is(err, service.ErrStoreUnavailable):
			l.Error("update_author_failed", "status", 400, "reason", "cannot upload photo", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "cannot upload photo")
		default:
			l.Error("update_author_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update author")
		}
	}

	l.Info("update_author_success", "author_id", id)
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHTTP) DeleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "author.delete_author")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteAuthor(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_author_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "author not found")
		}
		l.Error("delete_author_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete author")
	}

	l.Info("delete_author_success", "author_id", id)
	return c.NoContent(http.StatusNoContent)
}
