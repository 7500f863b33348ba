package order

import (
	"context"
	"errors"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"
	"github.com/noname01054/LaCoupole-back/pkg/stock"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	OrderRepository interface {
		// CreateOrder persists the order, its items and options, the rate-limit
		// usage rows, and (for auto-approved orders) the stock deduction in one
		// transaction. It reports whether a referenced table changed to
		// occupied.
		CreateOrder(ctx context.Context, order *entities.Order, limitRows []*entities.DeviceOrderLimit, autoApprove bool) (bool, error)
		ApproveOrder(ctx context.Context, id uuid.UUID) (*entities.Order, error)
		CancelOrder(ctx context.Context, id uuid.UUID, restoreStock bool) (*entities.Order, error)
		GetOrderByID(ctx context.Context, id uuid.UUID) (*entities.Order, error)
		GetOrders(ctx context.Context, status string, page, limit int) ([]*entities.Order, int64, error)
	}

	orderRepository struct {
		db     *gorm.DB
		ledger stock.Ledger
	}
)

func NewOrderRepository(db *gorm.DB, ledger stock.Ledger) OrderRepository {
	return &orderRepository{db: db, ledger: ledger}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *entities.Order, limitRows []*entities.DeviceOrderLimit, autoApprove bool) (bool, error) {
	tableOccupied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table entities.RestaurantTable
		if order.TableID != nil {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", *order.TableID).
				First(&table).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrTableNotFound
				}
				return err
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, row := range limitRows {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}

		if autoApprove {
			if err := r.ledger.DeductForOrder(tx, order.ID); err != nil {
				return err
			}
		}

		if order.TableID != nil && table.Status != entities.TableStatusOccupied {
			if err := tx.Model(&entities.RestaurantTable{}).
				Where("id = ?", *order.TableID).
				Update("status", entities.TableStatusOccupied).Error; err != nil {
				return err
			}
			tableOccupied = true
		}

		return nil
	})
	return tableOccupied, err
}

// ApproveOrder locks the order row, verifies the transition has not already
// happened (the approved flag alone is racy, so the deduction ledger is the
// source of truth), deducts stock, and flips the order to preparing.
func (r *orderRepository) ApproveOrder(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entities.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		deducted, err := r.ledger.HasDeduction(tx, id)
		if err != nil {
			return err
		}
		if err := approvalGuard(&order, deducted); err != nil {
			return err
		}

		if err := r.ledger.DeductForOrder(tx, id); err != nil {
			return err
		}

		return tx.Model(&entities.Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"approved": true,
				"status":   entities.OrderStatusPreparing,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, id)
}

// CancelOrder locks the order row and cancels it. Restoration runs only when
// requested and the order had been approved; a failed restoration guard
// aborts the whole cancellation.
func (r *orderRepository) CancelOrder(ctx context.Context, id uuid.UUID, restoreStock bool) (*entities.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entities.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		if err := cancellationGuard(&order); err != nil {
			return err
		}

		if restoreStock && order.Approved {
			if err := r.ledger.RestoreForOrder(tx, id); err != nil {
				return err
			}
		}

		return tx.Model(&entities.Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"approved": false,
				"status":   entities.OrderStatusCancelled,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, id)
}

// approvalGuard enforces the at-most-once stock-affecting transition. The
// deduction ledger, not the approved flag, is the source of truth: the flag is
// cleared on cancellation while the ledger entry survives.
func approvalGuard(order *entities.Order, deducted bool) error {
	if order.Approved && order.Status != entities.OrderStatusCancelled {
		return domain.ErrAlreadyApproved
	}
	if deducted {
		return domain.ErrAlreadyDeducted
	}
	return nil
}

func cancellationGuard(order *entities.Order) error {
	if order.Status == entities.OrderStatusCancelled {
		return domain.ErrAlreadyCancelled
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	var order entities.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.MenuItem").
		Preload("Items.Breakfast").
		Preload("Items.Supplement").
		Preload("Items.Options").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetOrders(ctx context.Context, status string, page, limit int) ([]*entities.Order, int64, error) {
	var orders []*entities.Order
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Order{})
	if status != "all" && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Items").
		Preload("Items.Options").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}
