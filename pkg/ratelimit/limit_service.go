package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"

	"github.com/google/uuid"
)

const (
	// Window is the rolling interval over which submissions are counted.
	Window = time.Hour
	// MaxOrdersPerWindow is the admission ceiling per fingerprint set.
	MaxOrdersPerWindow = 3
)

type (
	// LimitService guards order admission per device and per network origin.
	// Two fingerprints are checked together so rotating the device id alone
	// does not reset the budget.
	LimitService interface {
		Check(ctx context.Context, deviceID, clientIP, userAgent string) ([]*entities.DeviceOrderLimit, error)
	}

	limitService struct {
		limitRepository LimitRepository
	}
)

func NewLimitService(limitRepository LimitRepository) LimitService {
	return &limitService{limitRepository: limitRepository}
}

// Check validates the device id, purges expired usage rows, and rejects when
// rows matching either fingerprint have exhausted the shared window budget. On
// success it returns the usage rows the admission transaction must persist,
// one per distinct fingerprint.
func (s *limitService) Check(ctx context.Context, deviceID, clientIP, userAgent string) ([]*entities.DeviceOrderLimit, error) {
	if _, err := uuid.Parse(deviceID); err != nil {
		return nil, domain.ErrInvalidDeviceID
	}

	deviceFingerprint := Fingerprint(deviceID)
	networkFingerprint := Fingerprint(clientIP + "|" + userAgent)

	now := time.Now()
	if err := s.limitRepository.PurgeExpired(ctx, now.Add(-Window)); err != nil {
		return nil, err
	}

	fingerprints := []string{deviceFingerprint}
	if networkFingerprint != deviceFingerprint {
		fingerprints = append(fingerprints, networkFingerprint)
	}

	// Rows matching either fingerprint count against one shared budget, so a
	// rotated device id still inherits its network origin's usage.
	count, err := s.limitRepository.CountSince(ctx, fingerprints, now.Add(-Window))
	if err != nil {
		return nil, err
	}
	if count >= MaxOrdersPerWindow {
		return nil, domain.ErrRateLimitExceeded
	}

	rows := make([]*entities.DeviceOrderLimit, 0, len(fingerprints))
	for _, fingerprint := range fingerprints {
		rows = append(rows, &entities.DeviceOrderLimit{
			DeviceFingerprint: fingerprint,
			DeviceID:          deviceID,
			OrderTimestamp:    now,
		})
	}
	return rows, nil
}

// Fingerprint hashes an identifier so raw device and network data are never
// stored directly.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
