package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/logger"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks a dependency; *sql.DB satisfies it
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthStatus is the body of a health check
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// SystemHandler serves /health
type SystemHandler struct {
	BaseHandler
	db          Pinger
	pingTimeout time.Duration
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:          db,
		pingTimeout: 2 * time.Second,
		startTime:   time.Now(),
	}
}

// Health pings the database. 503 means the instance should not get traffic.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	status := HealthStatus{
		Status:   "ok",
		Database: "up",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	if err := h.db.PingContext(ctx); err != nil {
		logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		status.Status = "degraded"
		status.Database = "down"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: status, Error: "Database unavailable"})
		return
	}
	h.Success(c, status)
}
