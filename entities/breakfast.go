package entities

import (
	"github.com/google/uuid"
)

type Breakfast struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Availability bool      `gorm:"default:true" json:"availability"`

	OptionGroups []*BreakfastOptionGroup `gorm:"foreignKey:BreakfastID" json:"option_groups,omitempty"`
	Ingredients  []*BreakfastIngredient  `gorm:"foreignKey:BreakfastID" json:"-"`
	Timestamp
}

// BreakfastOptionGroup is either owned by a single breakfast (BreakfastID set)
// or reusable across breakfasts through BreakfastGroupMapping.
type BreakfastOptionGroup struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BreakfastID   *uuid.UUID `gorm:"index" json:"breakfast_id,omitempty"`
	Title         string     `json:"title"`
	IsRequired    bool       `json:"is_required"`
	MaxSelections int        `gorm:"default:1" json:"max_selections"`

	Options []*BreakfastOption `gorm:"foreignKey:GroupID" json:"options,omitempty"`
	Timestamp
}

type BreakfastGroupMapping struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BreakfastID uuid.UUID `gorm:"index" json:"breakfast_id"`
	GroupID     uuid.UUID `gorm:"index" json:"group_id"`

	Group *BreakfastOptionGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Timestamp
}

type BreakfastOption struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	GroupID         uuid.UUID `gorm:"index" json:"group_id"`
	Name            string    `json:"name"`
	AdditionalPrice float64   `json:"additional_price"`

	Group       *BreakfastOptionGroup        `gorm:"foreignKey:GroupID" json:"-"`
	Ingredients []*BreakfastOptionIngredient `gorm:"foreignKey:BreakfastOptionID" json:"-"`
	Timestamp
}
