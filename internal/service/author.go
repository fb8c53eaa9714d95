package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type AuthorService struct {
	Repo    *repo.GormRepo
	Storage Uploader
}

func (s *AuthorService) CreateAuthor(ctx context.Context, req transport.AuthorCreateRequest, file *FileUpload) (*models.Author, error) {
	l := logging.FromContext(ctx).With("svc", "author.create")

	if req.Surname == "" {
		return nil, fmt.Errorf("%w: surname is required", ErrValidation)
	}

	author := &models.Author{
		Name:        req.Name,
		Surname:     req.Surname,
		Nationality: req.Nationality,
	}

	if file != nil && s.Storage != nil {
		url, err := s.Storage.Upload(ctx, file.Filename, file.ContentType, file.Reader, file.Size)
		if err != nil {
			l.Error("author_photo_upload_failed", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		author.PhotoS3URL = url
	}

	return s.Repo.CreateAuthor(ctx, author)
}

func (s *AuthorService) GetAuthorByID(ctx context.Context, id uint) (*models.Author, error) {
	return s.Repo.GetAuthorByID(ctx, id)
}

// GetOrCreateAuthor backs book creation: an unknown author is created on the
// fly with the photo that arrived alongside the book.
func (s *AuthorService) GetOrCreateAuthor(ctx context.Context, req transport.AuthorCreateRequest, file *FileUpload) (*models.Author, error) {
	author, err := s.Repo.GetAuthorBySurnameAndName(ctx, req.Surname, req.Name)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.CreateAuthor(ctx, req, file)
}

func (s *AuthorService) GetAllAuthors(ctx context.Context, offset, limit int) (int64, []models.Author, error) {
	return s.Repo.GetAllAuthors(ctx, offset, limit)
}

func (s *AuthorService) UpdateAuthor(ctx context.Context, id uint, req transport.AuthorUpdateRequest, file *FileUpload) (*models.Author, error) {
	l := logging.FromContext(ctx).With("svc", "author.update", "author_id", id)

	author, err := s.Repo.GetAuthorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		author.Name = *req.Name
	}
	if req.Surname != nil {
		author.Surname = *req.Surname
	}
	if req.Nationality != nil {
		author.Nationality = *req.Nationality
	}

	if file != nil && s.Storage != nil {
		url, err := s.Storage.Upload(ctx, file.Filename, file.ContentType, file.Reader, file.Size)
		if err != nil {
			l.Error("author_photo_upload_failed", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if author.PhotoS3URL != "" {
			if err := s.Storage.Delete(ctx, author.PhotoS3URL); err != nil {
				l.Warn("author_old_photo_delete_failed", "error", err)
			}
		}
		author.PhotoS3URL = url
	}
	author.UpdatedAt = time.Now().UTC()

	return s.Repo.SaveAuthor(ctx, author)
}

func (s *AuthorService) DeleteAuthor(ctx context.Context, id uint) error {
	return s.Repo.DeleteAuthor(ctx, id)
}
