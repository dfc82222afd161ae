package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/jobs/tasks"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

const DefaultQueue = "default"

var (
	tracer       = otel.Tracer("inventory-sales-tracker")
	meter        = otel.Meter("inventory-sales-tracker")
	jobsEnqueued metric.Int64Counter
)

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) (*Client, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	var err error
	jobsEnqueued, err = meter.Int64Counter(
		"jobs.enqueued",
		metric.WithDescription("Total number of jobs enqueued"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs enqueued counter")
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NotifyLowStock enqueues a low stock alert for product.
func (c *Client) NotifyLowStock(ctx context.Context, product models.Product) error {
	ctx, span := tracer.Start(ctx, "job.enqueue.low_stock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", int64(product.ID)),
		attribute.Int("product.stock", product.Stock),
		attribute.String("job.type", tasks.TypeLowStock),
	)

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	payload := tasks.LowStockPayload{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Stock:        product.Stock,
		Threshold:    product.LowStockThreshold,
		Watched:      product.IsWatched,
		TraceContext: carrier,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(tasks.TypeLowStock, payloadBytes,
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(3),
		asynq.TaskID(lowStockTaskID(product.ID)),
	)
	info, err := c.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// an alert for this product is still pending
		span.SetAttributes(attribute.Bool("job.deduplicated", true))
		return nil
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("enqueue %s: %w", tasks.TypeLowStock, err)
	}

	if jobsEnqueued != nil {
		jobsEnqueued.Add(ctx, 1, metric.WithAttributes(
			attribute.String("job.type", tasks.TypeLowStock),
		))
	}

	span.SetAttributes(
		attribute.String("job.id", info.ID),
		attribute.String("job.queue", info.Queue),
	)

	logging.Info(ctx).
		Str("job_id", info.ID).
		Str("job_type", tasks.TypeLowStock).
		Uint("product_id", product.ID).
		Msg("job enqueued")

	return nil
}

func lowStockTaskID(productID uint) string {
	return fmt.Sprintf("low_stock:%d", productID)
}
