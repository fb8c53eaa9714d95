package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

var (
	ErrInstanceUnavailable = errors.New("book instance is not available for loan")
	ErrLoanExists          = errors.New("reader already has an active loan for this book")
)

// CreateOrder loans the given instances to a reader in one transaction:
// every instance must be available, flips to loaned, and the owning book's
// available_for_loan counter is decremented. A reader holds at most one
// active loan per book title, enforced via the loans table.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, instanceIDs []uint) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instances []models.BookInstance
		if err := tx.Where("id IN ?", instanceIDs).Find(&instances).Error; err != nil {
			return err
		}
		if len(instances) != len(instanceIDs) {
			return gorm.ErrRecordNotFound
		}
		for _, inst := range instances {
			if inst.Status != models.BookStatusAvailable {
				return ErrInstanceUnavailable
			}
		}

		seen := make(map[uint]bool, len(instances))
		for _, inst := range instances {
			if seen[inst.BookID] {
				return ErrLoanExists
			}
			seen[inst.BookID] = true

			var loan models.Loan
			err := tx.Where("reader_id = ? AND book_id = ?", order.ReaderID, inst.BookID).
				First(&loan).Error
			switch {
			case err == nil:
				if loan.IsActive {
					return ErrLoanExists
				}
				if err := tx.Model(&loan).Updates(map[string]any{
					"issue_date": order.OrderDate,
					"due_date":   order.PlannedReturnDate,
					"is_active":  true,
				}).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				loan = models.Loan{
					ReaderID:  order.ReaderID,
					BookID:    inst.BookID,
					IssueDate: order.OrderDate,
					DueDate:   order.PlannedReturnDate,
					IsActive:  true,
				}
				if err := tx.Create(&loan).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Model(order).Association("BookInstances").Append(instances); err != nil {
			return err
		}

		for i := range instances {
			if err := tx.Model(&instances[i]).Update("status", models.BookStatusLoaned).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Book{}).
				Where("id = ? AND available_for_loan > 0", instances[i].BookID).
				Update("available_for_loan", gorm.Expr("available_for_loan - 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, order.ID)
}

func (r *GormRepo) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("BookInstances").Preload("Reader").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Order
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Preload("Reader").
		Order("order_date DESC").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// CloseOrder persists the costed order and the final state of its instances.
// Instances going back to the shelf bump available_for_loan; lost ones do not.
func (r *GormRepo) CloseOrder(ctx context.Context, order *models.Order, instances []models.BookInstance) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("BookInstances", "Reader").Save(order).Error; err != nil {
			return err
		}
		bookIDs := make([]uint, 0, len(instances))
		for i := range instances {
			inst := &instances[i]
			bookIDs = append(bookIDs, inst.BookID)
			if err := tx.Model(inst).Update("status", inst.Status).Error; err != nil {
				return err
			}
			if inst.Status == models.BookStatusAvailable {
				if err := tx.Model(&models.Book{}).
					Where("id = ?", inst.BookID).
					Update("available_for_loan", gorm.Expr("available_for_loan + 1")).Error; err != nil {
					return err
				}
			}
		}

		if len(bookIDs) > 0 {
			if err := tx.Model(&models.Loan{}).
				Where("reader_id = ? AND book_id IN ?", order.ReaderID, bookIDs).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
