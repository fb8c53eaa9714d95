package service

import (
	"context"
	"fmt"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
)

type ReaderService struct {
	Repo *repo.GormRepo
}

func (s *ReaderService) CreateReader(ctx context.Context, req transport.ReaderCreateRequest) (*models.Reader, error) {
	if req.Name == "" || req.Surname == "" || req.Email == "" || req.PassportNr == "" {
		return nil, fmt.Errorf("%w: name, surname, email and passport_nr are required", ErrValidation)
	}
	if _, err := s.Repo.GetReaderByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: reader with email %s already exists", ErrValidation, req.Email)
	}

	reader, err := s.Repo.CreateReader(ctx, &models.Reader{
		Name:        req.Name,
		FathersName: req.FathersName,
		Surname:     req.Surname,
		PassportNr:  req.PassportNr,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		Address:     req.Address,
	})
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: reader with this email or passport already exists", ErrValidation)
		}
		return nil, err
	}
	return reader, nil
}

func (s *ReaderService) GetReaderByID(ctx context.Context, id uint) (*models.Reader, error) {
	return s.Repo.GetReaderByID(ctx, id)
}

func (s *ReaderService) GetAllReaders(ctx context.Context, offset, limit int) (int64, []models.Reader, error) {
	return s.Repo.GetAllReaders(ctx, offset, limit)
}

func (s *ReaderService) UpdateReader(ctx context.Context, id uint, req transport.ReaderUpdateRequest) (*models.Reader, error) {
	reader, err := s.Repo.GetReaderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		reader.Name = *req.Name
	}
	if req.FathersName != nil {
		reader.FathersName = *req.FathersName
	}
	if req.Surname != nil {
		reader.Surname = *req.Surname
	}
	if req.PassportNr != nil {
		reader.PassportNr = *req.PassportNr
	}
	if req.DateOfBirth != nil {
		reader.DateOfBirth = *req.DateOfBirth
	}
	if req.Email != nil {
		reader.Email = *req.Email
	}
	if req.Address != nil {
		reader.Address = *req.Address
	}
	return s.Repo.SaveReader(ctx, reader)
}

func (s *ReaderService) DeleteReader(ctx context.Context, id uint) error {
	return s.Repo.DeleteReader(ctx, id)
}
