package handlers

import (
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/middleware"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	fields, err := requestFields(c, "product_id", "quantity")
	if err != nil {
		return err
	}

	input, err := services.ParseSaleForm(fields["product_id"], fields["quantity"])
	if err != nil {
		return domainError(err, "")
	}

	result, err := h.saleService.Process(ctx, operatorID, input)
	if err != nil {
		return domainError(err, "An error occurred during sale processing.")
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *SaleHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := cast.ToInt(c.QueryParam("limit"))

	sales, err := h.saleService.List(ctx, limit)
	if err != nil {
		return domainError(err, "failed to list sales")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sales": sales,
		"count": len(sales),
	})
}
