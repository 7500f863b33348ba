package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	MessageSuccessCreateOrder  = "order created successfully"
	MessageSuccessApproveOrder = "order approved successfully"
	MessageSuccessCancelOrder  = "order cancelled successfully"
	MessageSuccessGetOrders    = "orders retrieved successfully"

	MessageFailedCreateOrder  = "failed to create order"
	MessageFailedApproveOrder = "failed to approve order"
	MessageFailedCancelOrder  = "failed to cancel order"
	MessageFailedGetOrders    = "failed to retrieve orders"

	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidOrderType  = errors.New("invalid order type")
	ErrTableRequired     = errors.New("local orders require a table")
	ErrTableNotFound     = errors.New("table not found")
	ErrAddressRequired   = errors.New("delivery orders require a delivery address")
	ErrInvalidSessionID  = errors.New("invalid session id")
	ErrInvalidDeviceID   = errors.New("device id must be a valid UUID")
	ErrRateLimitExceeded = errors.New("too many orders from this device, try again later")
	ErrDuplicateOrder    = errors.New("duplicate order submission")

	ErrAlreadyApproved  = errors.New("order already approved")
	ErrAlreadyDeducted  = errors.New("stock already deducted for this order")
	ErrAlreadyCancelled = errors.New("order already cancelled")
	ErrAlreadyRestored  = errors.New("stock already restored for this order")
)

type (
	CreateOrderRequest struct {
		Items           []OrderItemRequest     `json:"items" validate:"omitempty,dive"`
		BreakfastItems  []BreakfastItemRequest `json:"breakfastItems" validate:"omitempty,dive"`
		TotalPrice      float64                `json:"total_price" validate:"gte=0"`
		OrderType       string                 `json:"order_type" validate:"required,oneof=local delivery takeaway imported"`
		DeliveryAddress *string                `json:"delivery_address"`
		PromotionID     *string                `json:"promotion_id" validate:"omitempty,uuid4"`
		TableID         *string                `json:"table_id" validate:"omitempty,uuid4"`
		SessionID       string                 `json:"session_id"`
		Notes           *string                `json:"notes"`
		Source          string                 `json:"source"`
	}

	// RequestMeta carries per-request context resolved by the handler layer.
	RequestMeta struct {
		SessionID   string
		DeviceID    string
		ClientIP    string
		UserAgent   string
		StaffOrigin bool
	}

	CreateOrderResponse struct {
		OrderID  string  `json:"order_id"`
		Total    float64 `json:"total_price"`
		Status   string  `json:"status"`
		Approved bool    `json:"approved"`
	}

	CancelOrderRequest struct {
		RestoreStock bool `json:"restoreStock"`
	}

	OrderItemResponse struct {
		ID           string   `json:"id"`
		ItemID       *string  `json:"item_id,omitempty"`
		BreakfastID  *string  `json:"breakfast_id,omitempty"`
		Name         string   `json:"name"`
		Quantity     int      `json:"quantity"`
		UnitPrice    float64  `json:"unit_price"`
		SupplementID *string  `json:"supplement_id,omitempty"`
		OptionIDs    []string `json:"option_ids,omitempty"`
	}

	OrderResponse struct {
		ID              string              `json:"id"`
		TotalPrice      float64             `json:"total_price"`
		OrderType       string              `json:"order_type"`
		DeliveryAddress *string             `json:"delivery_address,omitempty"`
		PromotionID     *string             `json:"promotion_id,omitempty"`
		TableID         *string             `json:"table_id,omitempty"`
		SessionID       string              `json:"session_id"`
		Notes           *string             `json:"notes,omitempty"`
		Status          string              `json:"status"`
		Approved        bool                `json:"approved"`
		Items           []OrderItemResponse `json:"items"`
		CreatedAt       time.Time           `json:"created_at"`
	}
)

func UUIDToStringPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
