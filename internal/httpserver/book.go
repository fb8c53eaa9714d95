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

type BookHTTP struct {
	Svc *service.BookService
}

func (h *BookHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.create_book")

	var req transport.BookCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_book_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	file, err := formFile(c, "file")
	if err != nil {
		l.Warn("create_book_failed", "status", 400, "reason", "cannot read file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	var username string
	if user := middleware.CurrentUser(c); user != nil {
		username = user.Username
	}

	book, err := h.Svc.CreateBook(ctx, req, file, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookAlreadyExists), errors.Is(err, service.ErrValidation):
			l.Warn("create_book_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			l.Error("create_book_failed", "status", 400, "reason", "cannot upload photo", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "cannot upload photo")
		default:
			l.Error("create_book_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create book")
		}
	}

	l.Info("create_book_success", "book_id", book.ID)
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get_book")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	book, err := h.Svc.GetBookByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_book_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		l.Error("get_book_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get book")
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get_books")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetAllBooks(ctx, offset, limit)
	if err != nil {
		l.Error("get_books_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list books")
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, offset, total))
}

func (h *BookHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.search_books")

	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title query parameter is required")
	}

	books, err := h.Svc.SearchBooksByTitle(ctx, title)
	if err != nil {
		l.Error("search_books_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search books")
	}

	l.Info("search_books_success", "title", title, "hits", len(books))
	return c.JSON(http.StatusOK, map[string]any{"data": books})
}

func (h *BookHTTP) MapAuthors(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.map_authors")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.BookAuthorsMapRequest
	if err := c.Bind(&req); err != nil || len(req.AuthorIDs) == 0 {
		l.Warn("map_authors_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "author_ids is required")
	}

	book, err := h.Svc.MapBookToAuthors(ctx, uint(id), req.AuthorIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("map_authors_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book or author not found")
		}
		l.Error("map_authors_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot map authors")
	}

	l.Info("map_authors_success", "book_id", id)
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) MapGenres(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.map_genres")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.BookGenresMapRequest
	if err := c.Bind(&req); err != nil || len(req.GenreIDs) == 0 {
		l.Warn("map_genres_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "genre_ids is required")
	}

	book, err := h.Svc.MapBookToGenres(ctx, uint(id), req.GenreIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("map_genres_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book or genre not found")
		}
		l.Error("map_genres_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot map genres")
	}

	l.Info("map_genres_success", "book_id", id)
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.update_book")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.BookUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_book_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var username string
	if user := middleware.CurrentUser(c); user != nil {
		username = user.Username
	}

	book, err := h.Svc.UpdateBook(ctx, uint(id), req, username)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_book_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_book_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_book_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update book")
		}
	}

	l.Info("update_book_success", "book_id", id)
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.delete_book")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteBook(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_book_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		l.Error("delete_book_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete book")
	}

	l.Info("delete_book_success", "book_id", id)
	return c.NoContent(http.StatusNoContent)
}
