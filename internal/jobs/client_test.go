package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowStockTaskIDIsStablePerProduct(t *testing.T) {
	assert.Equal(t, "low_stock:7", lowStockTaskID(7))
	assert.Equal(t, lowStockTaskID(7), lowStockTaskID(7))
	assert.NotEqual(t, lowStockTaskID(7), lowStockTaskID(8))
}
