package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pricetable/internal/domain/product"
	"pricetable/internal/infrastructure/session"
)

// readinessTimeout bounds the upstream probe.
const readinessTimeout = 5 * time.Second

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	gateway  product.Gateway
	sessions *session.Manager
	version  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gateway product.Gateway, sessions *session.Manager, version string) *HealthHandler {
	return &HealthHandler{gateway: gateway, sessions: sessions, version: version}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe: can the price API serve the first page?
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	_, err := h.gateway.GetPagedProducts(ctx, product.Pagination{
		Page:     product.DefaultPage,
		PageSize: product.DefaultPageSize,
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"price_api": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"price_api": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	stats := h.sessions.Stats()

	c.JSON(http.StatusOK, gin.H{
		"app":     "pricetable",
		"version": h.version,
		"sessions": map[string]any{
			"total":   stats.TotalSessions,
			"loading": stats.LoadingSessions,
		},
	})
}
