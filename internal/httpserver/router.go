package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avkozlov/library-backend/internal/middleware"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

type Deps struct {
	Auth      *AuthHTTP
	Users     *UserHTTP
	Authors   *AuthorHTTP
	Genres    *GenreHTTP
	Books     *BookHTTP
	Instances *BookInstanceHTTP
	Readers   *ReaderHTTP
	Orders    *OrderHTTP

	Tokens *tokens.Service
	Repo   *repo.GormRepo
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh-token", d.Auth.Refresh)
	auth.POST("/forgot-password", d.Auth.ForgotPassword)
	auth.GET("/reset-password", d.Auth.ResetPasswordForm)
	auth.POST("/reset-password", d.Auth.ResetPassword)

	authMW := middleware.RequireAuth(d.Tokens, d.Repo)

	private := e.Group("", authMW)
	private.POST("/auth/logout", d.Auth.Logout)

	users := private.Group("/users")
	users.GET("/me", d.Users.Me)
	users.PATCH("/me", d.Users.UpdateMe)
	users.GET("", d.Users.GetUsers)
	users.GET("/:id", d.Users.GetUser)
	users.PATCH("/:id", d.Users.UpdateUser, middleware.RequireAdmin())
	users.DELETE("/:id", d.Users.DeleteUser, middleware.RequireAdmin())

	authors := private.Group("/authors")
	authors.GET("", d.Authors.GetAuthors)
	authors.GET("/:id", d.Authors.GetAuthor)
	authors.POST("", d.Authors.CreateAuthor)
	authors.PATCH("/:id", d.Authors.UpdateAuthor)
	authors.DELETE("/:id", d.Authors.DeleteAuthor)

	genres := private.Group("/genres")
	genres.GET("", d.Genres.GetGenres)
	genres.GET("/:id", d.Genres.GetGenre)
	genres.POST("", d.Genres.CreateGenre)
	genres.PATCH("/:id", d.Genres.UpdateGenre)
	genres.DELETE("/:id", d.Genres.DeleteGenre)

	books := private.Group("/books")
	books.GET("/search", d.Books.SearchBooks)
	books.GET("", d.Books.GetBooks)
	books.GET("/:id", d.Books.GetBook)
	books.POST("", d.Books.CreateBook)
	books.POST("/:id/authors", d.Books.MapAuthors)
	books.POST("/:id/genres", d.Books.MapGenres)
	books.PATCH("/:id", d.Books.UpdateBook)
	books.DELETE("/:id", d.Books.DeleteBook)

	books.GET("/:id/instances", d.Instances.GetBookInstances)
	books.POST("/:id/instances", d.Instances.CreateInstance)

	instances := private.Group("/book-instances")
	instances.GET("/:id", d.Instances.GetInstance)
	instances.PATCH("/:id", d.Instances.UpdateInstance)
	instances.DELETE("/:id", d.Instances.DeleteInstance)

	readers := private.Group("/readers")
	readers.GET("", d.Readers.GetReaders)
	readers.GET("/:id", d.Readers.GetReader)
	readers.POST("", d.Readers.CreateReader)
	readers.PATCH("/:id", d.Readers.UpdateReader)
	readers.DELETE("/:id", d.Readers.DeleteReader)

	orders := private.Group("/orders")
	orders.GET("", d.Orders.GetOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.POST("", d.Orders.CreateOrder)
	orders.POST("/:id/close", d.Orders.CloseOrder)
	orders.DELETE("/:id", d.Orders.DeleteOrder, middleware.RequireAdmin())
}
