package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetAllUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.User
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePassword swaps the stored hash for the user identified by email.
func (r *GormRepo) UpdatePassword(ctx context.Context, email, newHash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{"password_hash": newHash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
