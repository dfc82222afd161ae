package database

import (
	"context"
	"fmt"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var demoProducts = []models.Product{
	{Name: "Shampoo", Price: decimal.RequireFromString("15.00"), Stock: 200, LowStockThreshold: 20, ImageURL: "shampoo.png"},
	{Name: "Water Bottle", Price: decimal.RequireFromString("5.00"), Stock: 500, LowStockThreshold: 20, ImageURL: "water_bottle.png", IsWatched: true},
	{Name: "Energy Bar", Price: decimal.RequireFromString("2.50"), Stock: 80, LowStockThreshold: 5, ImageURL: "energy_bar.png"},
}

// Seed inserts the demo catalog. Products whose name already exists are left
// untouched, so running it on every start is safe.
func Seed(ctx context.Context, db *gorm.DB) error {
	var inserted int64
	for _, p := range demoProducts {
		result := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&p)
		if result.Error != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, result.Error)
		}
		inserted += result.RowsAffected
	}

	if inserted == 0 {
		logging.Info(ctx).Msg("demo data already present, skipping")
		return nil
	}

	logging.Info(ctx).Int64("inserted", inserted).Msg("demo data inserted")
	return nil
}
