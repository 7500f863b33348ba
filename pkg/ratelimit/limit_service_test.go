package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/noname01054/LaCoupole-back/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimitRepository struct {
	counts map[string]int64
	purged bool
}

func newFakeLimitRepository() *fakeLimitRepository {
	return &fakeLimitRepository{counts: make(map[string]int64)}
}

func (f *fakeLimitRepository) PurgeExpired(_ context.Context, _ time.Time) error {
	f.purged = true
	return nil
}

func (f *fakeLimitRepository) CountSince(_ context.Context, fingerprints []string, _ time.Time) (int64, error) {
	var total int64
	for _, fingerprint := range fingerprints {
		total += f.counts[fingerprint]
	}
	return total, nil
}

func TestCheckRejectsInvalidDeviceID(t *testing.T) {
	s := NewLimitService(newFakeLimitRepository())

	_, err := s.Check(context.Background(), "not-a-uuid", "10.0.0.1", "agent")

	assert.ErrorIs(t, err, domain.ErrInvalidDeviceID)
}

func TestCheckAdmitsUnderBudget(t *testing.T) {
	repo := newFakeLimitRepository()
	s := NewLimitService(repo)
	deviceID := uuid.New().String()

	rows, err := s.Check(context.Background(), deviceID, "10.0.0.1", "agent")

	require.NoError(t, err)
	assert.True(t, repo.purged)
	// one usage row per fingerprint: device and network
	require.Len(t, rows, 2)
	assert.Equal(t, Fingerprint(deviceID), rows[0].DeviceFingerprint)
	assert.Equal(t, Fingerprint("10.0.0.1|agent"), rows[1].DeviceFingerprint)
}

func TestCheckRejectsExhaustedDevice(t *testing.T) {
	repo := newFakeLimitRepository()
	deviceID := uuid.New().String()
	repo.counts[Fingerprint(deviceID)] = MaxOrdersPerWindow
	s := NewLimitService(repo)

	_, err := s.Check(context.Background(), deviceID, "10.0.0.1", "agent")

	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
}

func TestCheckCatchesDeviceRotation(t *testing.T) {
	repo := newFakeLimitRepository()
	// the network fingerprint is saturated even though the device id is fresh
	repo.counts[Fingerprint("10.0.0.1|agent")] = MaxOrdersPerWindow
	s := NewLimitService(repo)

	_, err := s.Check(context.Background(), uuid.New().String(), "10.0.0.1", "agent")

	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
}

func TestCheckAdmitsJustUnderLimit(t *testing.T) {
	repo := newFakeLimitRepository()
	deviceID := uuid.New().String()
	repo.counts[Fingerprint(deviceID)] = MaxOrdersPerWindow - 1
	s := NewLimitService(repo)

	rows, err := s.Check(context.Background(), deviceID, "10.0.0.1", "agent")

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFingerprintIsStable(t *testing.T) {
	assert.Equal(t, Fingerprint("value"), Fingerprint("value"))
	assert.NotEqual(t, Fingerprint("value"), Fingerprint("other"))
	assert.Len(t, Fingerprint("value"), 64)
}
