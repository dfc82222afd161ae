package models

import (
	"time"
)

// Sale records one processed sale. ProductID is a soft reference: no
// foreign-key constraint is declared so that deleting a product keeps its
// sales history.
type Sale struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	SaleDate  time.Time `gorm:"not null;index" json:"sale_date"`
}

// SaleRecord is a sale joined with the current product name, which is empty
// when the product has since been deleted.
type SaleRecord struct {
	ID          uint      `json:"id" csv:"id"`
	ProductID   uint      `json:"product_id" csv:"product_id"`
	ProductName string    `json:"product_name" csv:"product_name"`
	Quantity    int       `json:"quantity" csv:"quantity"`
	SaleDate    time.Time `json:"sale_date" csv:"sale_date"`
}

type SaleResponse struct {
	Sale           Sale   `json:"sale"`
	RemainingStock int    `json:"remaining_stock"`
	LowStock       bool   `json:"low_stock"`
	Message        string `json:"message"`
}
