package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/logging"
)

// Penalty rates applied when closing an order, as fractions of an
// instance's declared value. A lost book costs thirty times its value.
const (
	dailyOverduePenalty = 0.01
	bookDamagePenalty   = 0.02
	bookLostPenalty     = 30.0
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) CreateOrder(ctx context.Context, req transport.OrderCreateRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "reader_id", req.ReaderID)

	if len(req.BookInstanceIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one book instance is required", ErrValidation)
	}
	now := time.Now().UTC()
	if !req.PlannedReturnDate.After(now) {
		return nil, fmt.Errorf("%w: planned_return_date must be in the future", ErrValidation)
	}
	if _, err := s.Repo.GetReaderByID(ctx, req.ReaderID); err != nil {
		return nil, err
	}

	// Price the rental up front so the cost lands in the same transaction
	// that loans the instances, an order row never exists with a zero cost.
	days := loanDays(now, req.PlannedReturnDate)
	var rental float64
	for _, instID := range req.BookInstanceIDs {
		inst, err := s.Repo.GetBookInstanceByID(ctx, instID)
		if err != nil {
			return nil, err
		}
		rental += inst.PricePerDay * float64(days)
	}

	order := &models.Order{
		ReaderID:          req.ReaderID,
		OrderDate:         now,
		Status:            models.OrderStatusActive,
		PlannedReturnDate: req.PlannedReturnDate,
		TotalCost:         round2(rental),
	}
	created, err := s.Repo.CreateOrder(ctx, order, req.BookInstanceIDs)
	if err != nil {
		l.Error("order_create_failed", "status", 400, "error", err)
		return nil, err
	}
	return created, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.Repo.GetOrderByID(ctx, id)
}

func (s *OrderService) GetAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.GetAllOrders(ctx, offset, limit)
}

// CloseOrder settles an active order: overdue days are charged per day,
// damaged instances go back on the shelf with a surcharge, lost instances
// stay lost and are billed at the replacement rate.
func (s *OrderService) CloseOrder(ctx context.Context, id uint, req transport.OrderCloseRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.close", "order_id", id)

	order, err := s.Repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusActive {
		return nil, fmt.Errorf("%w: order %d is already closed", ErrValidation, id)
	}

	damaged := toSet(req.DamagedInstanceIDs)
	lost := toSet(req.LostInstanceIDs)
	for instID := range damaged {
		if _, also := lost[instID]; also {
			return nil, fmt.Errorf("%w: instance %d marked both damaged and lost", ErrValidation, instID)
		}
	}
	known := toSet(nil)
	for _, inst := range order.BookInstances {
		known[inst.ID] = struct{}{}
	}
	for instID := range damaged {
		if _, ok := known[instID]; !ok {
			return nil, fmt.Errorf("%w: instance %d does not belong to order %d", ErrValidation, instID, id)
		}
	}
	for instID := range lost {
		if _, ok := known[instID]; !ok {
			return nil, fmt.Errorf("%w: instance %d does not belong to order %d", ErrValidation, instID, id)
		}
	}

	now := time.Now().UTC()
	var overdueDays int
	if now.After(order.PlannedReturnDate) {
		overdueDays = loanDays(order.PlannedReturnDate, now)
	}

	var overdueCost, damageCost, lostCost float64
	instances := make([]models.BookInstance, 0, len(order.BookInstances))
	for _, inst := range order.BookInstances {
		overdueCost += inst.Value * dailyOverduePenalty * float64(overdueDays)
		switch {
		case contains(lost, inst.ID):
			inst.Status = models.BookStatusLost
			lostCost += inst.Value * bookLostPenalty
			order.LostBooks++
		case contains(damaged, inst.ID):
			inst.Status = models.BookStatusAvailable
			damageCost += inst.Value * bookDamagePenalty
			order.DamagedBooks++
		default:
			inst.Status = models.BookStatusAvailable
		}
		instances = append(instances, inst)
	}

	order.Status = models.OrderStatusClosed
	order.FactReturnDate = &now
	order.OverdueCost = round2(overdueCost)
	order.DamageCost = round2(damageCost)
	order.LostCost = round2(lostCost)
	order.TotalCost = round2(order.TotalCost + order.OverdueCost + order.DamageCost + order.LostCost)

	if err := s.Repo.CloseOrder(ctx, order, instances); err != nil {
		l.Error("order_close_failed", "status", 400, "error", err)
		return nil, err
	}
	return s.Repo.GetOrderByID(ctx, id)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.Repo.DeleteOrder(ctx, id)
}

// loanDays counts calendar days between two moments, rounding partial
// days up so a loan never costs zero.
func loanDays(from, to time.Time) int {
	days := int(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func contains(set map[uint]struct{}, id uint) bool {
	_, ok := set[id]
	return ok
}
