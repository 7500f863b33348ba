package entities

import (
	"time"

	"github.com/google/uuid"
)

// DeviceOrderLimit is a rolling-window rate-limit record. Rows older than one
// hour are expired and purged before each count.
type DeviceOrderLimit struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DeviceFingerprint string    `gorm:"index" json:"device_fingerprint"`
	DeviceID          string    `json:"device_id"`
	OrderTimestamp    time.Time `gorm:"index" json:"order_timestamp"`
}
