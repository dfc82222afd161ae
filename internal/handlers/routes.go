package handlers

import (
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Products *ProductHandler
	Sales    *SaleHandler
	Metrics  *MetricsHandler
	Export   *ExportHandler
}

// RegisterRoutes mounts the API under /api and uploaded images under
// /static. Reads are public; every mutation needs an operator token.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret, uploadDir string) {
	e.Static("/static", uploadDir)

	api := e.Group("/api")

	api.GET("/health", h.Health.Check)
	api.POST("/login", h.Auth.Login)

	api.GET("/products", h.Products.List)
	api.GET("/products/:id", h.Products.Get)
	api.GET("/sales", h.Sales.List)
	api.GET("/metrics", h.Metrics.Report)
	api.GET("/export/products.csv", h.Export.Products)
	api.GET("/export/sales.csv", h.Export.Sales)

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/operators", h.Auth.RegisterOperator)
	auth.POST("/products", h.Products.Create)
	auth.DELETE("/products/:id", h.Products.Delete)
	auth.POST("/products/:id/watch", h.Products.ToggleWatch)
	auth.POST("/sales", h.Sales.Create)
}
