package dedup

import (
	"testing"
	"time"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		Items: []domain.OrderItemRequest{
			{ItemID: "4f5e5e44-9f7a-4e0f-8f0e-1c2d3e4f5a6b", Quantity: 2, UnitPrice: 9.00},
		},
		TotalPrice: 18.00,
		OrderType:  entities.OrderTypeTakeaway,
		SessionID:  "guest-session-0001",
	}
}

func TestGuardRejectsRepeatWithinWindow(t *testing.T) {
	guard := NewGuard(time.Minute)
	key := Key(sampleRequest())

	require.NoError(t, guard.Check(key))
	assert.ErrorIs(t, guard.Check(key), domain.ErrDuplicateOrder)
}

func TestGuardAllowsDistinctPayloads(t *testing.T) {
	guard := NewGuard(time.Minute)

	first := sampleRequest()
	second := sampleRequest()
	second.TotalPrice = 27.00
	second.Items[0].Quantity = 3

	require.NoError(t, guard.Check(Key(first)))
	assert.NoError(t, guard.Check(Key(second)))
}

func TestGuardAllowsDifferentSessions(t *testing.T) {
	guard := NewGuard(time.Minute)

	first := sampleRequest()
	second := sampleRequest()
	second.SessionID = "guest-session-0002"

	require.NoError(t, guard.Check(Key(first)))
	assert.NoError(t, guard.Check(Key(second)))
}

func TestGuardExpiresEntries(t *testing.T) {
	guard := NewGuard(20 * time.Millisecond)
	key := Key(sampleRequest())

	require.NoError(t, guard.Check(key))
	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, guard.Check(key))
}

func TestGuardReleaseAllowsImmediateRetry(t *testing.T) {
	guard := NewGuard(time.Minute)
	key := Key(sampleRequest())

	require.NoError(t, guard.Check(key))
	guard.Release(key)
	assert.NoError(t, guard.Check(key))
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key(sampleRequest())
	b := Key(sampleRequest())
	assert.Equal(t, a, b)
}

func TestKeyDistinguishesTables(t *testing.T) {
	first := sampleRequest()
	second := sampleRequest()
	table := uuid.New().String()
	second.TableID = &table

	assert.NotEqual(t, Key(first), Key(second))
}
