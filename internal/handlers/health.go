package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/database"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

type HealthHandler struct {
	db        *gorm.DB
	redisAddr string
}

// NewHealthHandler reports on db and, when redisAddr is not empty, on the
// job queue backend.
func NewHealthHandler(db *gorm.DB, redisAddr string) *HealthHandler {
	return &HealthHandler{db: db, redisAddr: redisAddr}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	dbStatus := statusHealthy
	if err := database.CheckHealth(h.db); err != nil {
		dbStatus = statusUnhealthy
	}

	redisStatus := statusDisabled
	if h.redisAddr != "" {
		redisStatus = statusHealthy
		if err := h.checkRedis(ctx); err != nil {
			redisStatus = statusUnhealthy
		}
	}

	overallStatus := statusHealthy
	statusCode := http.StatusOK
	if dbStatus != statusHealthy || redisStatus == statusUnhealthy {
		overallStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:   overallStatus,
		Database: dbStatus,
		Redis:    redisStatus,
	})
}

func (h *HealthHandler) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- jobs.Ping(h.redisAddr)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
