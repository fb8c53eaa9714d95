package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
)

func newTestBookService(t *testing.T) *BookService {
	t.Helper()

	r := repo.New(newTestDB(t))
	authors := &AuthorService{Repo: r}
	genres := &GenreService{Repo: r}
	return &BookService{Repo: r, Authors: authors, Genres: genres}
}

func bookCreateReq(title string) transport.BookCreateRequest {
	return transport.BookCreateRequest{
		TitleRus:           title,
		TitleOrigin:        "Crime and Punishment",
		Quantity:           2,
		AvailableForLoan:   2,
		AuthorsName:        "Fyodor",
		AuthorsSurname:     "Dostoevsky",
		AuthorsNationality: "Russian",
		GenreName:          "Novel",
	}
}

func TestBookService_CreateBook_CreatesAuthorAndGenre(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, bookCreateReq("Преступление и наказание"), nil, "librarian1")
	require.NoError(t, err)

	assert.Equal(t, "librarian1", book.CreatedBy)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Dostoevsky", book.Authors[0].Surname)
	require.Len(t, book.Genres, 1)
	assert.Equal(t, "Novel", book.Genres[0].Name)

	// A second book by the same author reuses the author row.
	second := bookCreateReq("Идиот")
	book2, err := svc.CreateBook(ctx, second, nil, "librarian1")
	require.NoError(t, err)
	assert.Equal(t, book.Authors[0].ID, book2.Authors[0].ID)
	assert.Equal(t, book.Genres[0].ID, book2.Genres[0].ID)
}

func TestBookService_CreateBook_DuplicateRejected(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, bookCreateReq("Преступление и наказание"), nil, "librarian1")
	require.NoError(t, err)

	_, err = svc.CreateBook(ctx, bookCreateReq("Преступление и наказание"), nil, "librarian1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookAlreadyExists)
}

func TestBookService_CreateBook_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)

	req := bookCreateReq("")
	_, err := svc.CreateBook(context.Background(), req, nil, "librarian1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookService_SearchBooksByTitle_DatabaseFallback(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, bookCreateReq("Преступление и наказание"), nil, "librarian1")
	require.NoError(t, err)

	// No search index is configured, so the lookup goes to the database.
	books, err := svc.SearchBooksByTitle(ctx, "Crime")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Преступление и наказание", books[0].TitleRus)

	books, err = svc.SearchBooksByTitle(ctx, "no such title")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookService_UpdateBook_NormalizesTitles(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, bookCreateReq("Преступление и наказание"), nil, "librarian1")
	require.NoError(t, err)

	titleRus := "идиот"
	titleOrigin := "the idiot"
	updated, err := svc.UpdateBook(ctx, book.ID, transport.BookUpdateRequest{
		TitleRus:    &titleRus,
		TitleOrigin: &titleOrigin,
	}, "librarian2")
	require.NoError(t, err)

	assert.Equal(t, "Идиот", updated.TitleRus)
	assert.Equal(t, "The Idiot", updated.TitleOrigin)
	assert.Equal(t, "librarian2", updated.UpdatedBy)
}

func TestBookService_MapBookToAuthors(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, bookCreateReq("Двенадцать стульев"), nil, "librarian1")
	require.NoError(t, err)

	coauthor, err := svc.Authors.CreateAuthor(ctx, transport.AuthorCreateRequest{
		Name:        "Yevgeny",
		Surname:     "Petrov",
		Nationality: "Russian",
	}, nil)
	require.NoError(t, err)

	mapped, err := svc.MapBookToAuthors(ctx, book.ID, []uint{coauthor.ID})
	require.NoError(t, err)
	assert.Len(t, mapped.Authors, 2)

	_, err = svc.MapBookToAuthors(ctx, book.ID, []uint{99999})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookService_DeleteBook(t *testing.T) {
	t.Parallel()

	svc := newTestBookService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, bookCreateReq("Преступление и наказание"), nil, "librarian1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	_, err = svc.GetBookByID(ctx, book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.DeleteBook(ctx, 99999), gorm.ErrRecordNotFound)
}
