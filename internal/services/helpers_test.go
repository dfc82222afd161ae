package services

import (
	"context"
	"testing"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testOperatorID uint = 1

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func createProduct(t *testing.T, svc *ProductService, name, price string, stock, threshold int) *models.Product {
	t.Helper()
	product, err := svc.Create(context.Background(), testOperatorID, CreateProductInput{
		Name:              name,
		Price:             decimal.RequireFromString(price),
		Stock:             stock,
		LowStockThreshold: threshold,
	})
	require.NoError(t, err)
	return product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product
}

func countSales(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	return count
}
