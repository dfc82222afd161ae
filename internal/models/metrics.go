package models

import "github.com/shopspring/decimal"

type TopProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int64  `json:"units_sold"`
}

type MetricsResponse struct {
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	TotalOrders     int64           `json:"total_orders"`
	TopProducts     []TopProduct    `json:"top_products"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}
