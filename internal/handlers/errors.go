package handlers

import (
	"errors"
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/middleware"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// domainError maps service errors onto HTTP errors. Unknown errors become a
// generic 500 that keeps the cause for logging.
func domainError(err error, fallback string) error {
	var (
		validationErr *services.ValidationError
		stockErr      *services.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		return middleware.NewDetailedError(http.StatusBadRequest, validationErr.Message, map[string]any{
			"field": validationErr.Field,
		})
	case errors.As(err, &stockErr):
		return middleware.NewDetailedError(http.StatusConflict, stockErr.Error(), map[string]any{
			"product_id":      stockErr.ProductID,
			"requested":       stockErr.Requested,
			"remaining_stock": stockErr.Remaining,
		})
	case errors.Is(err, services.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Product not found.")
	case errors.Is(err, services.ErrDuplicateName):
		return echo.NewHTTPError(http.StatusConflict, "Product name already exists.")
	case errors.Is(err, services.ErrOperatorExists):
		return echo.NewHTTPError(http.StatusConflict, "Operator already exists.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password.")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}
