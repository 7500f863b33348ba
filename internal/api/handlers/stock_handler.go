package handlers

import (
	"errors"
	"strconv"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/internal/api/presenters"
	"github.com/noname01054/LaCoupole-back/pkg/stock"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	StockHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetLowStock(c *fiber.Ctx) error
		Restock(c *fiber.Ctx) error
		GetTransactions(c *fiber.Ctx) error
	}

	stockHandler struct {
		stockService stock.StockService
		validator    *validator.Validate
	}
)

func NewStockHandler(stockService stock.StockService, validator *validator.Validate) StockHandler {
	return &stockHandler{
		stockService: stockService,
		validator:    validator,
	}
}

func (h *stockHandler) GetIngredients(c *fiber.Ctx) error {
	ingredients, err := h.stockService.GetIngredients(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, ingredients, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *stockHandler) GetLowStock(c *fiber.Ctx) error {
	ingredients, err := h.stockService.GetLowStock(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, ingredients, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *stockHandler) Restock(c *fiber.Ctx) error {
	req := new(domain.RestockRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRestock, err)
	}

	resp, err := h.stockService.Restock(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, stockErrorStatus(err), domain.MessageFailedRestock, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessRestock)
}

func (h *stockHandler) GetTransactions(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	transactions, count, err := h.stockService.GetTransactions(c.Context(), c.Params("id"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, stockErrorStatus(err), domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetTransactions)
}

func stockErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
