package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stockmanager/inventory-system/internal/api/handler"
	"github.com/stockmanager/inventory-system/internal/api/middleware"
	"github.com/stockmanager/inventory-system/internal/core/domain"
	"github.com/stockmanager/inventory-system/internal/core/service"
	"github.com/stockmanager/inventory-system/internal/infrastructure/auth"
	"github.com/stockmanager/inventory-system/internal/infrastructure/config"
	mongodb "github.com/stockmanager/inventory-system/internal/infrastructure/db/mongo"
	redisdb "github.com/stockmanager/inventory-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("inventory"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	hasher := auth.NewPasswordHasher()
	authService := service.NewAuthService(authRepo, hasher, log, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	authHandler := handler.NewAuthHandler(authService)

	productRepo := mongodb.NewProductRepository(db)
	dedup := redisdb.NewStockMoveDedup(rdb)
	productService := service.NewProductService(productRepo, dedup, log)
	productHandler := handler.NewProductHandler(productService)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Product routes (authenticated) ---
	products := e.Group("/api/products",
		middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer),
		middleware.RBAC(domain.RoleUser, domain.RoleAdmin),
	)
	products.GET("", productHandler.List)
	products.POST("", productHandler.Create)
	products.GET("/:id", productHandler.Get)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.SoftDelete)
	products.POST("/:id/restore", productHandler.Restore)
	products.POST("/:id/stock-out", productHandler.StockOut)
	products.POST("/:id/stock-in", productHandler.StockIn)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
