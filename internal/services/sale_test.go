package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/database/dbtest"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu       sync.Mutex
	products []models.Product
	err      error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, product models.Product) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.products = append(n.products, product)
	return n.err
}

func TestWidgetScenario(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)

	widget := createProduct(t, products, "Widget", "2.00", 10, 5)

	resp, err := sales.Process(ctx, testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.RemainingStock)
	assert.False(t, resp.LowStock)
	assert.Equal(t, "Sale processed successfully: 4 units sold.", resp.Message)
	assert.Equal(t, 6, reloadProduct(t, db, widget.ID).Stock)
	assert.Equal(t, int64(1), countSales(t, db))

	total, err := products.TotalStockValue(ctx)
	require.NoError(t, err)
	assertDecimal(t, "12.00", total)

	_, err = sales.Process(ctx, testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 10})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Remaining)
	assert.Equal(t, 10, stockErr.Requested)
	assert.Equal(t, "Sale failed: Only 6 units of stock remaining.", stockErr.Error())

	assert.Equal(t, 6, reloadProduct(t, db, widget.ID).Stock)
	assert.Equal(t, int64(1), countSales(t, db))
}

func TestSaleRecordsTimestampToTheSecond(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	sales.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 30, 45, 987654321, time.UTC)
	}

	widget := createProduct(t, products, "Widget", "2.00", 10, 5)

	resp, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)

	expected := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	assert.True(t, expected.Equal(resp.Sale.SaleDate))

	var stored models.Sale
	require.NoError(t, db.First(&stored, resp.Sale.ID).Error)
	assert.True(t, expected.Equal(stored.SaleDate), "stored %s", stored.SaleDate)
	assert.Equal(t, widget.ID, stored.ProductID)
	assert.Equal(t, 1, stored.Quantity)
}

func TestSaleSellsEntireStock(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	widget := createProduct(t, products, "Widget", "2.00", 3, 1)

	resp, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.RemainingStock)
	assert.True(t, resp.LowStock)

	_, err = sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 1})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Remaining)
}

func TestSaleUnknownProduct(t *testing.T) {
	db := dbtest.Open(t)
	sales := NewSaleService(db, nil)

	_, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: 42, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, countSales(t, db))
}

func TestSaleRejectsNonPositiveQuantity(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	widget := createProduct(t, products, "Widget", "2.00", 10, 5)

	for _, qty := range []int{0, -3} {
		_, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: qty})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quantity", ve.Field)
	}

	assert.Equal(t, 10, reloadProduct(t, db, widget.ID).Stock)
	assert.Zero(t, countSales(t, db))
}

func TestSaleRollsBackWhenInsertFails(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	widget := createProduct(t, products, "Widget", "2.00", 10, 5)

	require.NoError(t, db.Migrator().DropTable(&models.Sale{}))

	_, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 4})
	var infra *InfrastructureError
	require.ErrorAs(t, err, &infra)
	assert.Equal(t, "process sale", infra.Op)

	assert.Equal(t, 10, reloadProduct(t, db, widget.ID).Stock)
}

// sqlite runs with a single connection, so these transactions queue on the
// pool rather than contend for the row lock. TestSaleGuardRejectsStaleStock
// covers the guarded update.
func TestConcurrentSalesNeverOversell(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	widget := createProduct(t, products, "Widget", "2.00", 5, 1)

	const buyers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case IsInsufficientStock(err):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, rejected)
	assert.Equal(t, 0, reloadProduct(t, db, widget.ID).Stock)
	assert.Equal(t, int64(5), countSales(t, db))
}

func TestSaleGuardRejectsStaleStock(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	widget := createProduct(t, products, "Widget", "2.00", 10, 5)

	// drain the stock after the locked read, inside the same transaction
	var drained bool
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:drain_stock", func(tx *gorm.DB) {
		if drained || tx.Statement.Table != "products" {
			return
		}
		drained = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE products SET stock = 1 WHERE id = ?", widget.ID).Error)
	}))

	_, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 4})
	require.True(t, drained)

	var infra *InfrastructureError
	require.ErrorAs(t, err, &infra)
	assert.ErrorContains(t, err, "stock update affected 0 rows")

	assert.Equal(t, 10, reloadProduct(t, db, widget.ID).Stock)
	assert.Zero(t, countSales(t, db))
}

func TestSaleNotifiesLowStock(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	notifier := &recordingNotifier{}
	sales := NewSaleService(db, notifier)
	widget := createProduct(t, products, "Widget", "2.00", 10, 5)

	_, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Empty(t, notifier.products)

	resp, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, resp.LowStock)

	require.Len(t, notifier.products, 1)
	assert.Equal(t, widget.ID, notifier.products[0].ID)
	assert.Equal(t, 5, notifier.products[0].Stock)
}

func TestSaleSucceedsWhenNotifierFails(t *testing.T) {
	db := dbtest.Open(t)
	products := NewProductService(db)
	notifier := &recordingNotifier{err: errors.New("redis unavailable")}
	sales := NewSaleService(db, notifier)
	widget := createProduct(t, products, "Widget", "2.00", 2, 5)

	resp, err := sales.Process(context.Background(), testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RemainingStock)
	assert.Len(t, notifier.products, 1)
	assert.Equal(t, int64(1), countSales(t, db))
}

func TestListSalesNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	products := NewProductService(db)
	sales := NewSaleService(db, nil)
	widget := createProduct(t, products, "Widget", "2.00", 10, 1)
	gadget := createProduct(t, products, "Gadget", "1.00", 10, 1)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	sales.now = func() time.Time { return base }
	_, err := sales.Process(ctx, testOperatorID, SaleInput{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)

	sales.now = func() time.Time { return base.Add(time.Hour) }
	_, err = sales.Process(ctx, testOperatorID, SaleInput{ProductID: gadget.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, products.Delete(ctx, widget.ID, testOperatorID))

	records, err := sales.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Gadget", records[0].ProductName)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, widget.ID, records[1].ProductID)
	assert.Empty(t, records[1].ProductName)

	limited, err := sales.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, gadget.ID, limited[0].ProductID)

	all, err := sales.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestParseSaleForm(t *testing.T) {
	input, err := ParseSaleForm("7", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, SaleInput{ProductID: 7, Quantity: 3}, input)

	// leading zeros are decimal, not octal
	input, err = ParseSaleForm("010", "010")
	require.NoError(t, err)
	assert.Equal(t, SaleInput{ProductID: 10, Quantity: 10}, input)

	tests := []struct {
		name      string
		productID string
		quantity  string
		field     string
		message   string
	}{
		{"non numeric quantity", "7", "three", "quantity", "Invalid quantity."},
		{"hex quantity", "7", "0x10", "quantity", "Invalid quantity."},
		{"binary quantity", "7", "0b11", "quantity", "Invalid quantity."},
		{"digit separators", "7", "1_000", "quantity", "Invalid quantity."},
		{"fractional quantity", "7", "1.5", "quantity", "Invalid quantity."},
		{"hex product id", "0x10", "1", "product_id", "invalid product id"},
		{"empty quantity", "7", "", "quantity", "Invalid quantity."},
		{"zero quantity", "7", "0", "quantity", "Quantity must be a positive number."},
		{"negative quantity", "7", "-2", "quantity", "Quantity must be a positive number."},
		{"bad product id", "abc", "1", "product_id", "invalid product id"},
		{"zero product id", "0", "1", "product_id", "invalid product id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSaleForm(tt.productID, tt.quantity)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}
