package order

import (
	"testing"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"

	"github.com/stretchr/testify/assert"
)

func TestApprovalGuardAllowsPendingOrder(t *testing.T) {
	order := &entities.Order{Status: entities.OrderStatusPending}

	assert.NoError(t, approvalGuard(order, false))
}

func TestApprovalGuardRejectsSecondApproval(t *testing.T) {
	order := &entities.Order{Status: entities.OrderStatusPreparing, Approved: true}

	assert.ErrorIs(t, approvalGuard(order, true), domain.ErrAlreadyApproved)
}

func TestApprovalGuardRejectsDeductedOrder(t *testing.T) {
	// cancellation clears the approved flag but the ledger entry survives, so
	// re-approving must not deduct a second time
	order := &entities.Order{Status: entities.OrderStatusCancelled, Approved: false}

	assert.ErrorIs(t, approvalGuard(order, true), domain.ErrAlreadyDeducted)
}

func TestApprovalGuardAllowsReapprovalWithoutDeduction(t *testing.T) {
	// an order cancelled before its stock was ever deducted can be approved
	order := &entities.Order{Status: entities.OrderStatusCancelled, Approved: false}

	assert.NoError(t, approvalGuard(order, false))
}

func TestCancellationGuardRejectsCancelledOrder(t *testing.T) {
	order := &entities.Order{Status: entities.OrderStatusCancelled}

	assert.ErrorIs(t, cancellationGuard(order), domain.ErrAlreadyCancelled)
}

func TestCancellationGuardAllowsActiveOrder(t *testing.T) {
	for _, status := range []string{
		entities.OrderStatusPending,
		entities.OrderStatusPreparing,
		entities.OrderStatusReady,
	} {
		order := &entities.Order{Status: status}
		assert.NoError(t, cancellationGuard(order))
	}
}
