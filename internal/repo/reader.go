package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

func (r *GormRepo) CreateReader(ctx context.Context, rd *models.Reader) (*models.Reader, error) {
	if err := r.DB.WithContext(ctx).Create(rd).Error; err != nil {
		return nil, err
	}
	return rd, nil
}

func (r *GormRepo) GetReaderByID(ctx context.Context, id uint) (*models.Reader, error) {
	var reader models.Reader
	if err := r.DB.WithContext(ctx).First(&reader, id).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *GormRepo) GetReaderByEmail(ctx context.Context, email string) (*models.Reader, error) {
	var reader models.Reader
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&reader).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *GormRepo) GetAllReaders(ctx context.Context, offset, limit int) (int64, []models.Reader, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Reader{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Reader
	if err := r.DB.WithContext(ctx).Model(&models.Reader{}).
		Order("surname ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SaveReader(ctx context.Context, rd *models.Reader) (*models.Reader, error) {
	if err := r.DB.WithContext(ctx).Save(rd).Error; err != nil {
		return nil, err
	}
	return rd, nil
}

func (r *GormRepo) DeleteReader(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Reader{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
