package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/utils"
)

var startTime = time.Now()

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// GetHealth responds with service and dependency status. Any failing
// dependency turns the response into a 503.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	deps := gin.H{}
	for name, check := range h.checks {
		status := "connected"
		if err := check(ctx); err != nil {
			status = "disconnected"
			healthy = false
		}
		deps[name] = gin.H{"status": status}
	}

	data := gin.H{
		"status":       "healthy",
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	}
	if !healthy {
		data["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, utils.Response{
			Success: false,
			Code:    http.StatusServiceUnavailable,
			Message: "Service is degraded",
			Data:    data,
			Meta:    utils.Meta{RequestID: c.GetString("request_id"), Timestamp: time.Now().Format(time.RFC3339)},
		})
		return
	}
	utils.Success(c, http.StatusOK, "Service is healthy", data)
}
