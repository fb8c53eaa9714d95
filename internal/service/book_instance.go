package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/logging"
)

// loanDaysPerMonth spreads an instance's declared value over a month of
// rental to derive its daily price.
const loanDaysPerMonth = 30

type BookInstanceService struct {
	Repo    *repo.GormRepo
	Storage Uploader
}

func (s *BookInstanceService) CreateBookInstance(ctx context.Context, bookID uint, req transport.BookInstanceCreateRequest, file *FileUpload, username string) (*models.BookInstance, error) {
	l := logging.FromContext(ctx).With("svc", "book_instance.create", "book_id", bookID)

	if req.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive", ErrValidation)
	}
	book, err := s.Repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	instance := &models.BookInstance{
		BookID:      book.ID,
		ImprintYear: req.ImprintYear,
		Pages:       req.Pages,
		Value:       req.Value,
		PricePerDay: req.Value / loanDaysPerMonth,
		Status:      models.BookStatusAvailable,
		CreatedBy:   username,
	}
	if file != nil && s.Storage != nil {
		url, err := s.Storage.Upload(ctx, file.Filename, file.ContentType, file.Reader, file.Size)
		if err != nil {
			l.Error("cover_upload_failed", "status", 400, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		instance.CoverS3URL = url
	}

	created, err := s.Repo.CreateBookInstance(ctx, instance)
	if err != nil {
		return nil, err
	}

	book.Quantity++
	book.AvailableForLoan++
	if _, err := s.Repo.SaveBook(ctx, book); err != nil {
		l.Warn("book_counters_update_failed", "error", err)
	}
	return created, nil
}

func (s *BookInstanceService) GetBookInstanceByID(ctx context.Context, id uint) (*models.BookInstance, error) {
	return s.Repo.GetBookInstanceByID(ctx, id)
}

func (s *BookInstanceService) GetBookInstances(ctx context.Context, bookID uint) (*models.Book, error) {
	return s.Repo.GetBookWithInstances(ctx, bookID)
}

func (s *BookInstanceService) UpdateBookInstance(ctx context.Context, id uint, req transport.BookInstanceUpdateRequest, file *FileUpload, username string) (*models.BookInstance, error) {
	l := logging.FromContext(ctx).With("svc", "book_instance.update", "instance_id", id)

	instance, err := s.Repo.GetBookInstanceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ImprintYear != nil {
		instance.ImprintYear = *req.ImprintYear
	}
	if req.Pages != nil {
		instance.Pages = *req.Pages
	}
	if req.Value != nil {
		if *req.Value <= 0 {
			return nil, fmt.Errorf("%w: value must be positive", ErrValidation)
		}
		instance.Value = *req.Value
		instance.PricePerDay = *req.Value / loanDaysPerMonth
	}
	if req.Status != nil {
		switch *req.Status {
		case models.BookStatusAvailable, models.BookStatusLoaned, models.BookStatusLost:
			instance.Status = *req.Status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
	}
	if file != nil && s.Storage != nil {
		url, err := s.Storage.Upload(ctx, file.Filename, file.ContentType, file.Reader, file.Size)
		if err != nil {
			l.Error("cover_upload_failed", "status", 400, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if instance.CoverS3URL != "" {
			if err := s.Storage.Delete(ctx, instance.CoverS3URL); err != nil {
				l.Warn("old_cover_delete_failed", "error", err)
			}
		}
		instance.CoverS3URL = url
	}

	instance.UpdatedBy = username
	instance.UpdatedAt = time.Now().UTC()
	return s.Repo.SaveBookInstance(ctx, instance)
}

func (s *BookInstanceService) DeleteBookInstance(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "book_instance.delete", "instance_id", id)

	instance, err := s.Repo.GetBookInstanceByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteBookInstance(ctx, id); err != nil {
		return err
	}

	if instance.CoverS3URL != "" && s.Storage != nil {
		if err := s.Storage.Delete(ctx, instance.CoverS3URL); err != nil {
			l.Warn("cover_delete_failed", "error", err)
		}
	}
	if book, err := s.Repo.GetBookByID(ctx, instance.BookID); err == nil {
		book.Quantity--
		if instance.Status == models.BookStatusAvailable {
			book.AvailableForLoan--
		}
		if _, err := s.Repo.SaveBook(ctx, book); err != nil {
			l.Warn("book_counters_update_failed", "error", err)
		}
	}
	return nil
}
