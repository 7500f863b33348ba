package entities

import (
	"github.com/google/uuid"
)

const (
	StockTransactionAddition  = "addition"
	StockTransactionDeduction = "deduction"

	StockReasonOrderApproval = "Order approval"
	StockReasonOrderRestore  = "Order cancellation stock restoration"
)

// Ingredient stock is mutated only through ledger operations that pair the
// quantity change with an audit StockTransaction under a row lock.
type Ingredient struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name              string    `gorm:"uniqueIndex" json:"name"`
	Unit              string    `json:"unit"`
	QuantityInStock   float64   `json:"quantity_in_stock"`
	LowStockThreshold float64   `json:"low_stock_threshold"`

	Timestamp
}

type StockTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	IngredientID    uuid.UUID  `gorm:"index" json:"ingredient_id"`
	Quantity        float64    `json:"quantity"` // negative = deduction, positive = addition
	TransactionType string     `gorm:"index" json:"transaction_type"`
	OrderID         *uuid.UUID `gorm:"index" json:"order_id,omitempty"`
	Reason          string     `json:"reason"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Timestamp
}

type MenuItemIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MenuItemID   uuid.UUID `gorm:"index" json:"menu_item_id"`
	IngredientID uuid.UUID `gorm:"index" json:"ingredient_id"`
	Quantity     float64   `json:"quantity"` // per ordered unit

	Timestamp
}

type SupplementIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SupplementID uuid.UUID `gorm:"index" json:"supplement_id"`
	IngredientID uuid.UUID `gorm:"index" json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`

	Timestamp
}

type BreakfastIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BreakfastID  uuid.UUID `gorm:"index" json:"breakfast_id"`
	IngredientID uuid.UUID `gorm:"index" json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`

	Timestamp
}

type BreakfastOptionIngredient struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BreakfastOptionID uuid.UUID `gorm:"index" json:"breakfast_option_id"`
	IngredientID      uuid.UUID `gorm:"index" json:"ingredient_id"`
	Quantity          float64   `json:"quantity"`

	Timestamp
}
