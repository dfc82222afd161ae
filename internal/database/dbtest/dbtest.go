// Package dbtest opens isolated, migrated in-memory databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a fresh migrated sqlite database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Connect(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}
