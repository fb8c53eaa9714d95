package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

func (r *GormRepo) CreateAuthor(ctx context.Context, a *models.Author) (*models.Author, error) {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *GormRepo) GetAuthorByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	if err := r.DB.WithContext(ctx).Preload("Books").First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *GormRepo) GetAuthorBySurnameAndName(ctx context.Context, surname, name string) (*models.Author, error) {
	var author models.Author
	err := r.DB.WithContext(ctx).
		Where("surname = ? AND name = ?", surname, name).
		First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *GormRepo) GetAllAuthors(ctx context.Context, offset, limit int) (int64, []models.Author, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Author{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Author
	if err := r.DB.WithContext(ctx).Model(&models.Author{}).
		Order("surname ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SaveAuthor(ctx context.Context, a *models.Author) (*models.Author, error) {
	if err := r.DB.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *GormRepo) DeleteAuthor(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Author{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
