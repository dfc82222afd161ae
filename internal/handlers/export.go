package handlers

import (
	"fmt"
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type ExportHandler struct {
	productService *services.ProductService
	saleService    *services.SaleService
}

func NewExportHandler(productService *services.ProductService, saleService *services.SaleService) *ExportHandler {
	return &ExportHandler{
		productService: productService,
		saleService:    saleService,
	}
}

func (h *ExportHandler) Products(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return domainError(err, "failed to export products")
	}

	rows := make([]models.ProductRow, len(products))
	for i := range products {
		rows[i] = products[i].ToRow()
	}

	return writeCSV(c, "products.csv", &rows)
}

func (h *ExportHandler) Sales(c echo.Context) error {
	sales, err := h.saleService.All(c.Request().Context())
	if err != nil {
		return domainError(err, "failed to export sales")
	}

	return writeCSV(c, "sales.csv", &sales)
}

func writeCSV(c echo.Context, filename string, rows interface{}) error {
	body, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode csv").SetInternal(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}
