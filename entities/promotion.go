package entities

import (
	"time"

	"github.com/google/uuid"
)

// Promotion applies store-wide when ItemID is nil, otherwise only to the
// matching menu item.
type Promotion struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name               string     `json:"name"`
	DiscountPercentage float64    `json:"discount_percentage"`
	ItemID             *uuid.UUID `gorm:"index" json:"item_id,omitempty"`
	Active             bool       `gorm:"default:true" json:"active"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`

	MenuItem *MenuItem `gorm:"foreignKey:ItemID" json:"menu_item,omitempty"`
	Timestamp
}
