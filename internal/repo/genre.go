package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

func (r *GormRepo) CreateGenre(ctx context.Context, g *models.Genre) (*models.Genre, error) {
	if err := r.DB.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GormRepo) GetGenreByID(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.DB.WithContext(ctx).Preload("Books").First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GormRepo) GetGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GormRepo) GetAllGenres(ctx context.Context, offset, limit int) (int64, []models.Genre, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Genre{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Genre
	if err := r.DB.WithContext(ctx).Model(&models.Genre{}).
		Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SaveGenre(ctx context.Context, g *models.Genre) (*models.Genre, error) {
	if err := r.DB.WithContext(ctx).Save(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GormRepo) DeleteGenre(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Genre{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
