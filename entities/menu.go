package entities

import (
	"github.com/google/uuid"
)

type MenuItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	RegularPrice float64   `json:"regular_price"`
	SalePrice    *float64  `json:"sale_price,omitempty"`
	Availability bool      `gorm:"default:true" json:"availability"`

	Supplements []*MenuItemSupplement `gorm:"foreignKey:MenuItemID" json:"supplements,omitempty"`
	Ingredients []*MenuItemIngredient `gorm:"foreignKey:MenuItemID" json:"-"`
	Timestamp
}

type Supplement struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name string    `json:"name"`

	Timestamp
}

// MenuItemSupplement prices a supplement for one specific menu item.
type MenuItemSupplement struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MenuItemID      uuid.UUID `gorm:"index" json:"menu_item_id"`
	SupplementID    uuid.UUID `gorm:"index" json:"supplement_id"`
	AdditionalPrice float64   `json:"additional_price"`

	MenuItem   *MenuItem   `gorm:"foreignKey:MenuItemID" json:"-"`
	Supplement *Supplement `gorm:"foreignKey:SupplementID" json:"supplement,omitempty"`
	Timestamp
}
