package database

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by databaseURL. postgres:// URLs use the
// postgres driver; sqlite:// paths and file: DSNs use the embedded sqlite
// driver with a single connection so that writers are serialized.
func Connect(databaseURL string, isDevelopment bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if isDevelopment {
		logLevel = logger.Info
	}

	dialector, isSQLite := dialectorFor(databaseURL)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("failed to setup otel plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if isSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), true
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(databaseURL), true
	default:
		return postgres.Open(databaseURL), false
	}
}

func CheckHealth(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
