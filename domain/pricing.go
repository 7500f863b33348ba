package domain

import (
	"errors"
)

// PriceTolerance is the accepted absolute difference between a client-supplied
// price and the server-computed one.
const PriceTolerance = 0.01

var (
	ErrItemUnavailable      = errors.New("item unavailable")
	ErrInvalidSupplement    = errors.New("invalid supplement")
	ErrInvalidOption        = errors.New("invalid option")
	ErrMissingRequiredGroup = errors.New("missing required option group")
	ErrTooManySelections    = errors.New("too many selections for option group")
	ErrPriceMismatch        = errors.New("price mismatch")
	ErrTotalPriceMismatch   = errors.New("total price mismatch")
)

type (
	OrderItemRequest struct {
		ItemID        string   `json:"item_id" validate:"required,uuid4"`
		Quantity      int      `json:"quantity" validate:"required,min=1"`
		UnitPrice     float64  `json:"unit_price" validate:"required,gt=0"`
		SupplementIDs []string `json:"supplement_ids" validate:"omitempty,dive,uuid4"`
	}

	BreakfastItemRequest struct {
		BreakfastID string   `json:"breakfast_id" validate:"required,uuid4"`
		Quantity    int      `json:"quantity" validate:"required,min=1"`
		UnitPrice   float64  `json:"unit_price" validate:"required,gt=0"`
		OptionIDs   []string `json:"option_ids" validate:"omitempty,dive,uuid4"`
	}
)
