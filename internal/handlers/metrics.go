package handlers

import (
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"

	"github.com/labstack/echo/v4"
)

type MetricsHandler struct {
	metricsService *services.MetricsService
}

func NewMetricsHandler(metricsService *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

func (h *MetricsHandler) Report(c echo.Context) error {
	report, err := h.metricsService.Report(c.Request().Context())
	if err != nil {
		return domainError(err, "failed to compute metrics")
	}

	return c.JSON(http.StatusOK, report)
}
