package services

import (
	"context"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const topProductsLimit = 5

// MetricsService computes the dashboard figures. Each figure is its own
// query; they are not read from a common snapshot.
type MetricsService struct {
	db *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

func (s *MetricsService) Report(ctx context.Context) (*models.MetricsResponse, error) {
	ctx, span := tracer.Start(ctx, "metrics.report")
	defer span.End()

	totalValue, err := totalStockValue(ctx, s.db)
	if err != nil {
		return nil, err
	}

	totalOrders, err := s.TotalOrders(ctx)
	if err != nil {
		return nil, err
	}

	top, err := s.TopProducts(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := s.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("metrics.total_orders", totalOrders),
		attribute.String("metrics.total_revenue", revenue.String()),
	)

	return &models.MetricsResponse{
		TotalStockValue: totalValue,
		TotalOrders:     totalOrders,
		TopProducts:     top,
		TotalRevenue:    revenue,
	}, nil
}

func (s *MetricsService) TotalOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Sale{}).Count(&count).Error; err != nil {
		return 0, infraErr("count sales", err)
	}
	return count, nil
}

// TopProducts ranks products by units sold, ties broken by ascending product
// id. Sales of deleted products are not counted.
func (s *MetricsService) TopProducts(ctx context.Context) ([]models.TopProduct, error) {
	top := make([]models.TopProduct, 0, topProductsLimit)
	if err := s.db.WithContext(ctx).
		Table("sales").
		Select("products.id AS product_id, products.name AS name, SUM(sales.quantity) AS units_sold").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("products.id, products.name").
		Order("units_sold DESC").
		Order("products.id ASC").
		Limit(topProductsLimit).
		Scan(&top).Error; err != nil {
		return nil, infraErr("top products", err)
	}
	return top, nil
}

// TotalRevenue values every sale at the product's current price. Sales of
// deleted products are not counted.
func (s *MetricsService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var rows []struct {
		Price decimal.Decimal
		Units int64
	}
	if err := s.db.WithContext(ctx).
		Table("sales").
		Select("products.price AS price, SUM(sales.quantity) AS units").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("products.id, products.price").
		Scan(&rows).Error; err != nil {
		return decimal.Zero, infraErr("total revenue", err)
	}

	revenue := decimal.Zero
	for _, row := range rows {
		revenue = revenue.Add(row.Price.Mul(decimal.NewFromInt(row.Units)))
	}
	return revenue, nil
}
