package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
)

type GenreService struct {
	Repo *repo.GormRepo
}

func (s *GenreService) CreateGenre(ctx context.Context, req transport.GenreCreateRequest) (*models.Genre, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.Repo.CreateGenre(ctx, &models.Genre{Name: req.Name})
}

func (s *GenreService) GetGenreByID(ctx context.Context, id uint) (*models.Genre, error) {
	return s.Repo.GetGenreByID(ctx, id)
}

func (s *GenreService) GetOrCreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	genre, err := s.Repo.GetGenreByName(ctx, name)
	if err == nil {
		return genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.Repo.CreateGenre(ctx, &models.Genre{Name: name})
}

func (s *GenreService) GetAllGenres(ctx context.Context, offset, limit int) (int64, []models.Genre, error) {
	return s.Repo.GetAllGenres(ctx, offset, limit)
}

func (s *GenreService) UpdateGenre(ctx context.Context, id uint, req transport.GenreUpdateRequest) (*models.Genre, error) {
	genre, err := s.Repo.GetGenreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		genre.Name = *req.Name
	}
	return s.Repo.SaveGenre(ctx, genre)
}

func (s *GenreService) DeleteGenre(ctx context.Context, id uint) error {
	return s.Repo.DeleteGenre(ctx, id)
}
