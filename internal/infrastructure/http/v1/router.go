// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"librairie/internal/domain/auth"
	"librairie/internal/domain/cart"
	"librairie/internal/domain/catalog"
	"librairie/internal/domain/customer"
	"librairie/internal/domain/order"
	"librairie/internal/domain/sales"
	"librairie/internal/domain/settlement"
	"librairie/internal/infrastructure/export"
	"librairie/internal/infrastructure/http/v1/handlers"
	"librairie/internal/infrastructure/http/v1/middleware"
	"librairie/internal/infrastructure/storage/postgres"
	"librairie/internal/infrastructure/storage/postgres/auth_repo"
	"librairie/internal/infrastructure/storage/postgres/cart_repo"
	"librairie/internal/infrastructure/storage/postgres/catalog_repo"
	"librairie/internal/infrastructure/storage/postgres/customer_repo"
	"librairie/internal/infrastructure/storage/postgres/order_repo"
	"librairie/internal/infrastructure/storage/postgres/sales_repo"
	"librairie/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the PostgreSQL connection pool
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTSecret signs cashier tokens
	JWTSecret string

	// ISBNCache speeds up ISBN scans; nil disables caching
	ISBNCache catalog.ISBNCache

	// LoyaltyExpr overrides the default discount eligibility rule
	LoyaltyExpr string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	txManager := postgres.NewTxManager(cfg.Pool)

	// Repositories
	itemRepo := catalog_repo.NewItemRepo(txManager)
	lineRepo := cart_repo.NewLineRepo(txManager)
	customerRepo := customer_repo.NewCustomerRepo(txManager)
	saleRepo := sales_repo.NewSaleRepo(txManager)
	orderRepo := order_repo.NewOrderRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// Domain services
	catalogService := catalog.NewService(itemRepo)
	if cfg.ISBNCache != nil {
		catalogService = catalogService.WithISBNCache(cfg.ISBNCache)
	}

	loyaltyRule, err := customer.NewLoyaltyRule(loyaltyExpr(cfg))
	if err != nil {
		return nil, err
	}
	customerService := customer.NewService(customerRepo, loyaltyRule)

	cartService := cart.NewService(lineRepo, catalogService, customerService, txManager)
	settlementEngine := settlement.NewEngine(lineRepo, saleRepo, customerService, txManager)
	salesService := sales.NewService(saleRepo, itemRepo, txManager)
	orderService := order.NewService(orderRepo)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
	authService := auth.NewService(userRepo, jwtService)

	exporter, err := export.NewExporter(salesService)
	if err != nil {
		return nil, err
	}

	router := gin.New()

	// Global middleware, order matters
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	handlers.NewHealthHandler(cfg.Pool).RegisterRoutes(router.Group("/health"))

	api := router.Group("/api/v1")
	{
		handlers.NewAuthHandler(base, authService).RegisterRoutes(api.Group("/auth"))

		protected := api.Group("")
		protected.Use(middleware.Auth(jwtService))

		handlers.NewCatalogHandler(base, catalogService).RegisterRoutes(protected)
		handlers.NewCartHandler(base, cartService, settlementEngine).RegisterRoutes(protected)
		handlers.NewSalesHandler(base, salesService, exporter).RegisterRoutes(protected)
		handlers.NewCustomerHandler(base, customerService).RegisterRoutes(protected)
		handlers.NewOrderHandler(base, orderService).RegisterRoutes(protected)
	}

	return router, nil
}

func loyaltyExpr(cfg RouterConfig) string {
	if cfg.LoyaltyExpr != "" {
		return cfg.LoyaltyExpr
	}
	return customer.DefaultLoyaltyExpr
}
