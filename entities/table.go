package entities

import (
	"github.com/google/uuid"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
)

type RestaurantTable struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	TableNumber int       `gorm:"uniqueIndex" json:"table_number"`
	Capacity    int       `json:"capacity"`
	Status      string    `gorm:"default:available" json:"status"`

	Timestamp
}
