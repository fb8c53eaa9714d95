package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/avkozlov/library-backend/internal/blacklist"
	"github.com/avkozlov/library-backend/internal/config"
	"github.com/avkozlov/library-backend/internal/es"
	"github.com/avkozlov/library-backend/internal/httpserver"
	"github.com/avkozlov/library-backend/internal/mq"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/storage"
	pkgdb "github.com/avkozlov/library-backend/pkg/db"
	"github.com/avkozlov/library-backend/pkg/logging"
	loggingmw "github.com/avkozlov/library-backend/pkg/middleware/logging"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", "library-backend")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	r := repo.New(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	bl := blacklist.New(rdb)

	tok := tokens.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ResetTokenTTL)

	var producer *mq.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mq.NewProducer(cfg.KafkaBrokers, cfg.ResetTopic)
		defer producer.Close()
	}

	var uploader service.Uploader
	if cfg.MinioEndpoint != "" {
		storageCtx, storageCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := storage.NewClient(storageCtx, storage.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			PublicURL: cfg.MinioPublicURL,
			UseSSL:    cfg.MinioUseSSL,
		})
		storageCancel()
		if err != nil {
			log.Fatalf("object storage: %v", err)
		}
		uploader = client
	}

	var bookIndex *es.BookIndex
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(es.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
		})
		if err != nil {
			logger.Warn("search index unavailable, falling back to database search", "error", err)
		} else {
			bookIndex = &es.BookIndex{Client: esClient, Index: cfg.ESIndex}
		}
	}

	authSvc := &service.AuthService{
		Repo:      r,
		Tokens:    tok,
		Blacklist: bl,
		ResetLink: cfg.ResetPasswordLink,
	}
	if producer != nil {
		authSvc.Producer = producer
	}
	userSvc := &service.UserService{Repo: r}
	authorSvc := &service.AuthorService{Repo: r, Storage: uploader}
	genreSvc := &service.GenreService{Repo: r}
	bookSvc := &service.BookService{Repo: r, Authors: authorSvc, Genres: genreSvc, Index: bookIndex}
	instanceSvc := &service.BookInstanceService{Repo: r, Storage: uploader}
	readerSvc := &service.ReaderService{Repo: r}
	orderSvc := &service.OrderService{Repo: r}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Users:     &httpserver.UserHTTP{Svc: userSvc},
		Authors:   &httpserver.AuthorHTTP{Svc: authorSvc},
		Genres:    &httpserver.GenreHTTP{Svc: genreSvc},
		Books:     &httpserver.BookHTTP{Svc: bookSvc},
		Instances: &httpserver.BookInstanceHTTP{Svc: instanceSvc},
		Readers:   &httpserver.ReaderHTTP{Svc: readerSvc},
		Orders:    &httpserver.OrderHTTP{Svc: orderSvc},
		Tokens:    tok,
		Repo:      r,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("library backend listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = rdb.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("library backend stopped")
}
