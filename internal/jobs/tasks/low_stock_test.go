package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLowStock(t *testing.T) {
	payload, err := json.Marshal(LowStockPayload{
		ProductID:   7,
		ProductName: "Widget",
		Stock:       3,
		Threshold:   5,
	})
	require.NoError(t, err)

	err = HandleLowStock(context.Background(), asynq.NewTask(TypeLowStock, payload))
	assert.NoError(t, err)
}

func TestHandleLowStockRejectsBadPayload(t *testing.T) {
	err := HandleLowStock(context.Background(), asynq.NewTask(TypeLowStock, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
