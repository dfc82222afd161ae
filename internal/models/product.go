package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"uniqueIndex;not null" json:"name"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock             int             `gorm:"not null;check:stock >= 0" json:"stock"`
	LowStockThreshold int             `gorm:"not null" json:"low_stock_threshold"`
	ImageURL          string          `gorm:"size:1024" json:"image_url"`
	IsWatched         bool            `gorm:"not null;default:false" json:"is_watched"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsLowStock is evaluated on read; it is never persisted.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// StockValue is stock multiplied by the current unit price.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

type ProductResponse struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	ImageURL          string          `json:"image_url"`
	IsWatched         bool            `json:"is_watched"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		ImageURL:          p.ImageURL,
		IsWatched:         p.IsWatched,
		CreatedAt:         p.CreatedAt,
	}
}

type InventoryResponse struct {
	Products   []ProductResponse `json:"products"`
	TotalValue decimal.Decimal   `json:"total_value"`
	Count      int               `json:"count"`
}

// ProductRow is the CSV export shape of a product.
type ProductRow struct {
	ID                uint   `csv:"id"`
	Name              string `csv:"name"`
	Price             string `csv:"price"`
	Stock             int    `csv:"stock"`
	LowStockThreshold int    `csv:"low_stock_threshold"`
	LowStock          bool   `csv:"low_stock"`
	ImageURL          string `csv:"image_url"`
	IsWatched         bool   `csv:"is_watched"`
}

func (p *Product) ToRow() ProductRow {
	return ProductRow{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price.StringFixed(2),
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		ImageURL:          p.ImageURL,
		IsWatched:         p.IsWatched,
	}
}
