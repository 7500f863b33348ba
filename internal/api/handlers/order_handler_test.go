package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/noname01054/LaCoupole-back/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestOrderErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrRateLimitExceeded, fiber.StatusTooManyRequests},
		{domain.ErrDuplicateOrder, fiber.StatusTooManyRequests},
		{domain.ErrOrderNotFound, fiber.StatusNotFound},
		// a bad table reference on order creation is a validation failure,
		// not a missing resource
		{domain.ErrTableNotFound, fiber.StatusBadRequest},
		{domain.ErrAlreadyApproved, fiber.StatusBadRequest},
		{domain.ErrAlreadyDeducted, fiber.StatusBadRequest},
		{domain.ErrAlreadyCancelled, fiber.StatusBadRequest},
		{domain.ErrAlreadyRestored, fiber.StatusBadRequest},
		{domain.ErrPriceMismatch, fiber.StatusBadRequest},
		{domain.ErrTotalPriceMismatch, fiber.StatusBadRequest},
		{domain.ErrInsufficientStock, fiber.StatusBadRequest},
		{domain.ErrTooManySelections, fiber.StatusBadRequest},
		{errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.code, orderErrorStatus(c.err), "error %v", c.err)
	}
}

func TestOrderErrorStatusUnwrapsContext(t *testing.T) {
	wrapped := fmt.Errorf("%w: Couscous Royal expected 9.00, got 9.50", domain.ErrPriceMismatch)

	assert.Equal(t, fiber.StatusBadRequest, orderErrorStatus(wrapped))
}
