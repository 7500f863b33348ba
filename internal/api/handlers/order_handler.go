package handlers

import (
	"errors"
	"strconv"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/internal/api/presenters"
	"github.com/noname01054/LaCoupole-back/pkg/order"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	OrderHandler interface {
		CreateOrder(c *fiber.Ctx) error
		ApproveOrder(c *fiber.Ctx) error
		CancelOrder(c *fiber.Ctx) error
		GetOrders(c *fiber.Ctx) error
		GetOrderByID(c *fiber.Ctx) error
	}

	orderHandler struct {
		orderService order.OrderService
		validator    *validator.Validate
	}
)

func NewOrderHandler(orderService order.OrderService, validator *validator.Validate) OrderHandler {
	return &orderHandler{
		orderService: orderService,
		validator:    validator,
	}
}

func (h *orderHandler) CreateOrder(c *fiber.Ctx) error {
	req := new(domain.CreateOrderRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateOrder, err)
	}

	role, _ := c.Locals("role").(string)
	meta := domain.RequestMeta{
		SessionID:   c.Get("X-Session-Id"),
		DeviceID:    c.Get("X-Device-Id"),
		ClientIP:    c.IP(),
		UserAgent:   c.Get("User-Agent"),
		StaffOrigin: req.Source == "staff" && (role == domain.RoleStaff || role == domain.RoleAdmin),
	}

	resp, err := h.orderService.CreateOrder(c.Context(), *req, meta)
	if err != nil {
		return presenters.ErrorResponse(c, orderErrorStatus(err), domain.MessageFailedCreateOrder, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessCreateOrder)
}

func (h *orderHandler) ApproveOrder(c *fiber.Ctx) error {
	resp, err := h.orderService.ApproveOrder(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, orderErrorStatus(err), domain.MessageFailedApproveOrder, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessApproveOrder)
}

func (h *orderHandler) CancelOrder(c *fiber.Ctx) error {
	req := new(domain.CancelOrderRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	resp, err := h.orderService.CancelOrder(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, orderErrorStatus(err), domain.MessageFailedCancelOrder, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessCancelOrder)
}

func (h *orderHandler) GetOrders(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	orders, count, err := h.orderService.GetOrders(c.Context(), c.Query("status"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetOrders)
}

func (h *orderHandler) GetOrderByID(c *fiber.Ctx) error {
	resp, err := h.orderService.GetOrderByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, orderErrorStatus(err), domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetOrders)
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRateLimitExceeded), errors.Is(err, domain.ErrDuplicateOrder):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrOrderNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyApproved), errors.Is(err, domain.ErrAlreadyDeducted),
		errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, domain.ErrAlreadyRestored),
		errors.Is(err, domain.ErrPriceMismatch), errors.Is(err, domain.ErrTotalPriceMismatch),
		errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrInvalidOrderType),
		errors.Is(err, domain.ErrTableRequired), errors.Is(err, domain.ErrTableNotFound),
		errors.Is(err, domain.ErrAddressRequired),
		errors.Is(err, domain.ErrInvalidSessionID), errors.Is(err, domain.ErrInvalidDeviceID),
		errors.Is(err, domain.ErrItemUnavailable), errors.Is(err, domain.ErrInvalidSupplement),
		errors.Is(err, domain.ErrInvalidOption), errors.Is(err, domain.ErrMissingRequiredGroup),
		errors.Is(err, domain.ErrTooManySelections), errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
