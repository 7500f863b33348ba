package config

import (
	"os"
	"strings"
	"time"

	"github.com/noname01054/LaCoupole-back/internal/api/handlers"
	"github.com/noname01054/LaCoupole-back/internal/api/routes"
	"github.com/noname01054/LaCoupole-back/internal/middleware"
	"github.com/noname01054/LaCoupole-back/internal/utils"
	"github.com/noname01054/LaCoupole-back/pkg/dedup"
	"github.com/noname01054/LaCoupole-back/pkg/jwt"
	"github.com/noname01054/LaCoupole-back/pkg/notify"
	"github.com/noname01054/LaCoupole-back/pkg/order"
	"github.com/noname01054/LaCoupole-back/pkg/pricing"
	"github.com/noname01054/LaCoupole-back/pkg/ratelimit"
	"github.com/noname01054/LaCoupole-back/pkg/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// infrastructure
	brokers := strings.Split(utils.GetConfig("KAFKA_BROKERS"), ",")
	notifier := notify.NewKafkaNotifier(brokers, utils.GetConfig("KAFKA_TOPIC"))
	guard := dedup.NewGuard(dedup.DefaultTTL)

	// Repository
	catalogRepository := pricing.NewCatalogRepository(db)
	stockRepository := stock.NewStockRepository(db)
	limitRepository := ratelimit.NewLimitRepository(db)
	orderRepository := order.NewOrderRepository(db, stockRepository)

	// Service
	jwtService := jwt.NewJWTService()
	verifier := pricing.NewVerifier(catalogRepository)
	stockService := stock.NewStockService(stockRepository, utils.GetConfig("STOCK_ALERT_EMAIL"))
	limitService := ratelimit.NewLimitService(limitRepository)
	orderService := order.NewOrderService(
		orderRepository,
		verifier,
		limitService,
		guard,
		notifier,
		stockService,
	)

	// Handler
	orderHandler := handlers.NewOrderHandler(orderService, validator)
	stockHandler := handlers.NewStockHandler(stockService, validator)

	// routes
	routesConfig := routes.Config{
		App:          app,
		OrderHandler: orderHandler,
		StockHandler: stockHandler,
		Middleware:   middlewares,
		JWTService:   jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
