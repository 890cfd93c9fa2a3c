// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pricetable/internal/domain/pricetable"
	"pricetable/internal/domain/product"
	"pricetable/internal/infrastructure/http/v1/handlers"
	"pricetable/internal/infrastructure/http/v1/middleware"
	"pricetable/internal/infrastructure/session"
	"pricetable/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Gateway is the price API, used by the readiness probe
	Gateway product.Gateway

	// Sessions owns one workspace per browser session
	Sessions *session.Manager

	// Views renders table snapshots
	Views *pricetable.ViewBuilder

	// Version is reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no session required)
	healthHandler := handlers.NewHealthHandler(cfg.Gateway, cfg.Sessions, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	sessionHandler := handlers.NewSessionHandler(baseHandler, cfg.Sessions)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", sessionHandler.Create)

		// Everything else belongs to a session
		protected := v1.Group("")
		protected.Use(middleware.Session(cfg.Sessions))

		protected.DELETE("/sessions", sessionHandler.Delete)
		RegisterTableRoutes(protected.Group("/table"), handlers.NewTableHandler(baseHandler, cfg.Views))
		RegisterLookupRoutes(protected.Group("/lookup"), handlers.NewLookupHandler(baseHandler))
	}

	return router
}
