package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// Ledger methods take the caller's transaction handle so a deduction or
	// restoration commits or rolls back together with the order-state change
	// that triggered it.
	Ledger interface {
		DeductForOrder(tx *gorm.DB, orderID uuid.UUID) error
		RestoreForOrder(tx *gorm.DB, orderID uuid.UUID) error
		HasDeduction(tx *gorm.DB, orderID uuid.UUID) (bool, error)
	}

	StockRepository interface {
		Ledger
		ListIngredients(ctx context.Context) ([]*entities.Ingredient, error)
		ListLowStock(ctx context.Context) ([]*entities.Ingredient, error)
		Restock(ctx context.Context, id uuid.UUID, quantity float64, reason string) (*entities.Ingredient, error)
		ListTransactions(ctx context.Context, ingredientID uuid.UUID, page, limit int) ([]*entities.StockTransaction, int64, error)
	}

	stockRepository struct {
		db *gorm.DB
	}
)

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

// requirementsForOrder resolves every order item and selected breakfast option
// to its ingredient-consumption mapping and merges them into one ingredient
// map. Option consumption is charged per line occurrence, not per quantity.
func (r *stockRepository) requirementsForOrder(tx *gorm.DB, orderID uuid.UUID) (map[uuid.UUID]float64, error) {
	var items []*entities.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]LineRequirement, 0, len(items))
	for _, item := range items {
		line := LineRequirement{Quantity: item.Quantity}

		if item.ItemID != nil {
			var rows []*entities.MenuItemIngredient
			if err := tx.Where("menu_item_id = ?", *item.ItemID).Find(&rows).Error; err != nil {
				return nil, err
			}
			for _, row := range rows {
				line.UnitIngredients = append(line.UnitIngredients, IngredientAmount{row.IngredientID, row.Quantity})
			}

			if item.SupplementID != nil {
				var supplementRows []*entities.SupplementIngredient
				if err := tx.Where("supplement_id = ?", *item.SupplementID).Find(&supplementRows).Error; err != nil {
					return nil, err
				}
				for _, row := range supplementRows {
					line.UnitIngredients = append(line.UnitIngredients, IngredientAmount{row.IngredientID, row.Quantity})
				}
			}
		}

		if item.BreakfastID != nil {
			var rows []*entities.BreakfastIngredient
			if err := tx.Where("breakfast_id = ?", *item.BreakfastID).Find(&rows).Error; err != nil {
				return nil, err
			}
			for _, row := range rows {
				line.UnitIngredients = append(line.UnitIngredients, IngredientAmount{row.IngredientID, row.Quantity})
			}

			var selections []*entities.BreakfastOrderOption
			if err := tx.Where("order_item_id = ?", item.ID).Find(&selections).Error; err != nil {
				return nil, err
			}
			if len(selections) > 0 {
				optionIDs := make([]uuid.UUID, 0, len(selections))
				for _, selection := range selections {
					optionIDs = append(optionIDs, selection.BreakfastOptionID)
				}
				var optionRows []*entities.BreakfastOptionIngredient
				if err := tx.Where("breakfast_option_id IN ?", optionIDs).Find(&optionRows).Error; err != nil {
					return nil, err
				}
				for _, row := range optionRows {
					line.PerLineIngredients = append(line.PerLineIngredients, IngredientAmount{row.IngredientID, row.Quantity})
				}
			}
		}

		lines = append(lines, line)
	}

	return AggregateRequirements(lines), nil
}

func (r *stockRepository) DeductForOrder(tx *gorm.DB, orderID uuid.UUID) error {
	required, err := r.requirementsForOrder(tx, orderID)
	if err != nil {
		return err
	}

	ids := sortedIngredientIDs(required)
	ingredients := make(map[uuid.UUID]*entities.Ingredient, len(ids))
	for _, ingredientID := range ids {
		var ingredient entities.Ingredient
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ingredientID).
			First(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, ingredientID)
			}
			return err
		}
		ingredients[ingredientID] = &ingredient
	}

	// Every row is locked and checked before the first quantity changes.
	if err := checkAvailability(required, ingredients); err != nil {
		return err
	}

	for _, ingredientID := range ids {
		amount := required[ingredientID]

		if err := tx.Model(&entities.Ingredient{}).
			Where("id = ?", ingredientID).
			Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", amount)).Error; err != nil {
			return err
		}

		transaction := &entities.StockTransaction{
			IngredientID:    ingredientID,
			Quantity:        -amount,
			TransactionType: entities.StockTransactionDeduction,
			OrderID:         &orderID,
			Reason:          entities.StockReasonOrderApproval,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
	}

	return nil
}

// RestoreForOrder adds back what a prior deduction removed. A missing
// deduction means there is nothing to restore; an existing restoration
// aborts with ErrAlreadyRestored.
func (r *stockRepository) RestoreForOrder(tx *gorm.DB, orderID uuid.UUID) error {
	deducted, err := r.HasDeduction(tx, orderID)
	if err != nil {
		return err
	}

	var restorations int64
	if err := tx.Model(&entities.StockTransaction{}).
		Where("order_id = ? AND transaction_type = ? AND reason = ?",
			orderID, entities.StockTransactionAddition, entities.StockReasonOrderRestore).
		Count(&restorations).Error; err != nil {
		return err
	}

	proceed, err := restorationDecision(deducted, restorations)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	required, err := r.requirementsForOrder(tx, orderID)
	if err != nil {
		return err
	}

	for _, ingredientID := range sortedIngredientIDs(required) {
		amount := required[ingredientID]

		var ingredient entities.Ingredient
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ingredientID).
			First(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, ingredientID)
			}
			return err
		}

		if err := tx.Model(&entities.Ingredient{}).
			Where("id = ?", ingredientID).
			Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", amount)).Error; err != nil {
			return err
		}

		transaction := &entities.StockTransaction{
			IngredientID:    ingredientID,
			Quantity:        amount,
			TransactionType: entities.StockTransactionAddition,
			OrderID:         &orderID,
			Reason:          entities.StockReasonOrderRestore,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *stockRepository) HasDeduction(tx *gorm.DB, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(&entities.StockTransaction{}).
		Where("order_id = ? AND transaction_type = ?", orderID, entities.StockTransactionDeduction).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *stockRepository) ListIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *stockRepository) ListLowStock(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("quantity_in_stock <= low_stock_threshold").
		Order("name ASC").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Restock records a manual stock addition under the same row lock and audit
// pairing the ledger uses everywhere else.
func (r *stockRepository) Restock(ctx context.Context, id uuid.UUID, quantity float64, reason string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrIngredientNotFound
			}
			return err
		}

		if err := tx.Model(&entities.Ingredient{}).
			Where("id = ?", id).
			Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", quantity)).Error; err != nil {
			return err
		}
		ingredient.QuantityInStock += quantity

		transaction := &entities.StockTransaction{
			IngredientID:    id,
			Quantity:        quantity,
			TransactionType: entities.StockTransactionAddition,
			Reason:          reason,
		}
		return tx.Create(transaction).Error
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *stockRepository) ListTransactions(ctx context.Context, ingredientID uuid.UUID, page, limit int) ([]*entities.StockTransaction, int64, error) {
	var transactions []*entities.StockTransaction
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.StockTransaction{}).Where("ingredient_id = ?", ingredientID)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}
