package database

import (
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Sale{},
		&models.Operator{},
	)
}
