package entities

import (
	"github.com/google/uuid"
)

const (
	OrderTypeLocal    = "local"
	OrderTypeDelivery = "delivery"
	OrderTypeTakeaway = "takeaway"
	OrderTypeImported = "imported"

	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	TotalPrice      float64    `json:"total_price"`
	OrderType       string     `gorm:"index" json:"order_type"`
	DeliveryAddress *string    `json:"delivery_address,omitempty"`
	PromotionID     *uuid.UUID `json:"promotion_id,omitempty"`
	TableID         *uuid.UUID `gorm:"index" json:"table_id,omitempty"`
	SessionID       string     `gorm:"index" json:"session_id"`
	Notes           *string    `json:"notes,omitempty"`
	Status          string     `gorm:"index;default:pending" json:"status"`
	Approved        bool       `gorm:"default:false" json:"approved"`

	Items     []*OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Table     *RestaurantTable `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Promotion *Promotion       `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"`
	Timestamp
}

// OrderItem references exactly one of a menu item or a breakfast. SupplementID
// carries the primary supplement for menu-item lines; breakfast lines carry
// their selected options instead.
type OrderItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID      uuid.UUID  `gorm:"index" json:"order_id"`
	ItemID       *uuid.UUID `gorm:"index" json:"item_id,omitempty"`
	BreakfastID  *uuid.UUID `gorm:"index" json:"breakfast_id,omitempty"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	SupplementID *uuid.UUID `json:"supplement_id,omitempty"`

	MenuItem   *MenuItem               `gorm:"foreignKey:ItemID" json:"menu_item,omitempty"`
	Breakfast  *Breakfast              `gorm:"foreignKey:BreakfastID" json:"breakfast,omitempty"`
	Supplement *Supplement             `gorm:"foreignKey:SupplementID" json:"supplement,omitempty"`
	Options    []*BreakfastOrderOption `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	Timestamp
}

type BreakfastOrderOption struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderItemID       uuid.UUID `gorm:"index" json:"order_item_id"`
	BreakfastOptionID uuid.UUID `json:"breakfast_option_id"`

	Option *BreakfastOption `gorm:"foreignKey:BreakfastOptionID" json:"option,omitempty"`
	Timestamp
}
