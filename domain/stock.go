package domain

import (
	"errors"
)

var (
	MessageSuccessGetIngredients  = "ingredients retrieved successfully"
	MessageSuccessRestock         = "ingredient restocked successfully"
	MessageSuccessGetTransactions = "stock transactions retrieved successfully"
	MessageFailedGetIngredients   = "failed to retrieve ingredients"
	MessageFailedRestock          = "failed to restock ingredient"
	MessageFailedGetTransactions  = "failed to retrieve stock transactions"

	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)

type (
	RestockRequest struct {
		Quantity float64 `json:"quantity" validate:"required,gt=0"`
		Reason   string  `json:"reason" validate:"required"`
	}

	IngredientResponse struct {
		ID                string  `json:"id"`
		Name              string  `json:"name"`
		Unit              string  `json:"unit"`
		QuantityInStock   float64 `json:"quantity_in_stock"`
		LowStockThreshold float64 `json:"low_stock_threshold"`
		LowStock          bool    `json:"low_stock"`
	}
)
