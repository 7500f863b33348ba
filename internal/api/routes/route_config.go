package routes

import (
	"github.com/noname01054/LaCoupole-back/internal/api/handlers"
	"github.com/noname01054/LaCoupole-back/internal/middleware"
	"github.com/noname01054/LaCoupole-back/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App          *fiber.App
	OrderHandler handlers.OrderHandler
	StockHandler handlers.StockHandler
	Middleware   middleware.Middleware
	JWTService   jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Orders()
	c.Ingredients()
	c.GuestRoute()
}

func (c *Config) Orders() {
	orders := c.App.Group("/api/orders")
	// order submission is open to guests; staff credentials upgrade the request
	{
		orders.Post("", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.OrderHandler.CreateOrder)
		orders.Get("", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffOnly(), c.OrderHandler.GetOrders)
		orders.Get("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffOnly(), c.OrderHandler.GetOrderByID)
		orders.Post("/:id/approve", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffOnly(), c.OrderHandler.ApproveOrder)
		orders.Post("/:id/cancel", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffOnly(), c.OrderHandler.CancelOrder)
	}
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/ingredients", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffOnly())
	{
		ingredients.Get("", c.StockHandler.GetIngredients)
		ingredients.Get("/low-stock", c.StockHandler.GetLowStock)
		ingredients.Post("/:id/restock", c.StockHandler.Restock)
		ingredients.Get("/:id/transactions", c.StockHandler.GetTransactions)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
