package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

func (r *GormRepo) CreateBookInstance(ctx context.Context, bi *models.BookInstance) (*models.BookInstance, error) {
	if err := r.DB.WithContext(ctx).Create(bi).Error; err != nil {
		return nil, err
	}
	return bi, nil
}

func (r *GormRepo) GetBookInstanceByID(ctx context.Context, id uint) (*models.BookInstance, error) {
	var instance models.BookInstance
	if err := r.DB.WithContext(ctx).Preload("Book").First(&instance, id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// GetBookWithInstances returns the book together with all its physical copies.
func (r *GormRepo) GetBookWithInstances(ctx context.Context, bookID uint) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).
		Preload("Instances").
		First(&book, bookID).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormRepo) SaveBookInstance(ctx context.Context, bi *models.BookInstance) (*models.BookInstance, error) {
	if err := r.DB.WithContext(ctx).Save(bi).Error; err != nil {
		return nil, err
	}
	return bi, nil
}

func (r *GormRepo) DeleteBookInstance(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.BookInstance{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
