package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/es"
	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type BookService struct {
	Repo    *repo.GormRepo
	Authors *AuthorService
	Genres  *GenreService
	Index   *es.BookIndex
}

// CreateBook registers a new title; the author and genre are created on the
// fly when the library does not know them yet.
func (s *BookService) CreateBook(ctx context.Context, req transport.BookCreateRequest, file *FileUpload, username string) (*models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "book.create")

	if req.TitleRus == "" || req.AuthorsSurname == "" || req.GenreName == "" {
		return nil, fmt.Errorf("%w: title_rus, authors_surname and genre_name are required", ErrValidation)
	}

	author, err := s.Authors.GetOrCreateAuthor(ctx, transport.AuthorCreateRequest{
		Name:        req.AuthorsName,
		Surname:     req.AuthorsSurname,
		Nationality: req.AuthorsNationality,
	}, file)
	if err != nil {
		l.Error("book_create_failed", "status", 400, "reason", "cannot resolve author", "error", err)
		return nil, err
	}

	genre, err := s.Genres.GetOrCreateGenre(ctx, req.GenreName)
	if err != nil {
		l.Error("book_create_failed", "status", 400, "reason", "cannot resolve genre", "error", err)
		return nil, err
	}

	if _, err := s.Repo.GetBookByTitleAndAuthor(ctx, req.TitleRus, author.Surname); err == nil {
		return nil, fmt.Errorf("%w: the book '%s' of the author %s %s already exists",
			ErrBookAlreadyExists, req.TitleRus, author.Name, author.Surname)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	book := &models.Book{
		TitleRus:         req.TitleRus,
		TitleOrigin:      req.TitleOrigin,
		Quantity:         req.Quantity,
		AvailableForLoan: req.AvailableForLoan,
		CreatedBy:        username,
		Authors:          []models.Author{*author},
		Genres:           []models.Genre{*genre},
	}
	created, err := s.Repo.CreateBook(ctx, book)
	if err != nil {
		l.Error("book_create_failed", "status", 400, "error", err)
		return nil, err
	}

	s.indexBook(ctx, created)
	return created, nil
}

func (s *BookService) GetBookByID(ctx context.Context, id uint) (*models.Book, error) {
	return s.Repo.GetBookByID(ctx, id)
}

// SearchBooksByTitle asks the search index first and falls back to a plain
// LIKE scan when the index is absent or unreachable.
func (s *BookService) SearchBooksByTitle(ctx context.Context, title string) ([]models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "book.search", "title", title)

	if s.Index != nil {
		_, ids, err := s.Index.SearchBooks(ctx, title, 0, 100)
		if err == nil {
			return s.Repo.GetBooksByIDs(ctx, ids)
		}
		l.Warn("book_index_search_failed", "reason", "falling back to database", "error", err)
	}
	return s.Repo.GetBooksByTitle(ctx, title)
}

func (s *BookService) GetAllBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	return s.Repo.GetAllBooks(ctx, offset, limit)
}

func (s *BookService) MapBookToAuthors(ctx context.Context, bookID uint, authorIDs []uint) (*models.Book, error) {
	book, err := s.Repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	authors := make([]models.Author, 0, len(authorIDs))
	for _, id := range authorIDs {
		a, err := s.Repo.GetAuthorByID(ctx, id)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	if err := s.Repo.AppendBookAuthors(ctx, book, authors); err != nil {
		return nil, err
	}
	return s.Repo.GetBookByID(ctx, bookID)
}

func (s *BookService) MapBookToGenres(ctx context.Context, bookID uint, genreIDs []uint) (*models.Book, error) {
	book, err := s.Repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	genres := make([]models.Genre, 0, len(genreIDs))
	for _, id := range genreIDs {
		g, err := s.Repo.GetGenreByID(ctx, id)
		if err != nil {
			return nil, err
		}
		genres = append(genres, *g)
	}
	if err := s.Repo.AppendBookGenres(ctx, book, genres); err != nil {
		return nil, err
	}
	return s.Repo.GetBookByID(ctx, bookID)
}

func (s *BookService) UpdateBook(ctx context.Context, id uint, req transport.BookUpdateRequest, username string) (*models.Book, error) {
	book, err := s.Repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TitleRus != nil {
		book.TitleRus = capitalize(*req.TitleRus)
	}
	if req.TitleOrigin != nil {
		book.TitleOrigin = titleCase(*req.TitleOrigin)
	}
	if req.Quantity != nil {
		book.Quantity = *req.Quantity
	}
	if req.AvailableForLoan != nil {
		book.AvailableForLoan = *req.AvailableForLoan
	}
	book.UpdatedBy = username
	book.UpdatedAt = time.Now().UTC()

	updated, err := s.Repo.SaveBook(ctx, book)
	if err != nil {
		return nil, err
	}

	s.indexBook(ctx, updated)
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("book_deindex_failed", "book_id", id, "error", err)
		}
	}
	return nil
}

func (s *BookService) indexBook(ctx context.Context, book *models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, book); err != nil {
		logging.FromContext(ctx).Warn("book_index_failed", "book_id", book.ID, "error", err)
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// titleCase upper-cases the first rune of every word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
