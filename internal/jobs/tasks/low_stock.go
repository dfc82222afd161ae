package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

const TypeLowStock = "inventory:low_stock"

var (
	tracer        = otel.Tracer("inventory-sales-tracker-worker")
	meter         = otel.Meter("inventory-sales-tracker-worker")
	jobsCompleted metric.Int64Counter
	jobsFailed    metric.Int64Counter
	jobsDuration  metric.Float64Histogram
	lowStockAlert metric.Int64Counter
)

func init() {
	var err error

	jobsCompleted, err = meter.Int64Counter(
		"jobs.completed",
		metric.WithDescription("Total number of jobs completed successfully"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs completed counter")
	}

	jobsFailed, err = meter.Int64Counter(
		"jobs.failed",
		metric.WithDescription("Total number of jobs failed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs failed counter")
	}

	jobsDuration, err = meter.Float64Histogram(
		"jobs.duration_ms",
		metric.WithDescription("Job processing duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs duration histogram")
	}

	lowStockAlert, err = meter.Int64Counter(
		"inventory.low_stock.alerts",
		metric.WithDescription("Total number of low stock alerts raised"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create low stock alerts counter")
	}
}

type LowStockPayload struct {
	ProductID    uint              `json:"product_id"`
	ProductName  string            `json:"product_name"`
	Stock        int               `json:"stock"`
	Threshold    int               `json:"threshold"`
	Watched      bool              `json:"watched"`
	TraceContext map[string]string `json:"trace_context"`
}

func HandleLowStock(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload LowStockPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		recordJobMetrics(ctx, TypeLowStock, false, time.Since(start))
		return fmt.Errorf("decode low stock payload: %w: %w", err, asynq.SkipRetry)
	}

	parentCtx := otel.GetTextMapPropagator().Extract(
		context.Background(),
		propagation.MapCarrier(payload.TraceContext),
	)

	ctx, span := tracer.Start(parentCtx, "job.low_stock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", int64(payload.ProductID)),
		attribute.String("product.name", payload.ProductName),
		attribute.Int("product.stock", payload.Stock),
		attribute.Int("product.threshold", payload.Threshold),
		attribute.String("job.type", TypeLowStock),
	)

	event := logging.Warn(ctx)
	if payload.Stock == 0 {
		event = logging.Error(ctx)
	}
	event.
		Uint("product_id", payload.ProductID).
		Str("product_name", payload.ProductName).
		Int("stock", payload.Stock).
		Int("threshold", payload.Threshold).
		Bool("watched", payload.Watched).
		Msg("product at or below restock threshold")

	if lowStockAlert != nil {
		lowStockAlert.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("watched", payload.Watched),
			attribute.Bool("out_of_stock", payload.Stock == 0),
		))
	}

	span.SetStatus(codes.Ok, "low stock alert processed")
	recordJobMetrics(ctx, TypeLowStock, true, time.Since(start))

	return nil
}

func recordJobMetrics(ctx context.Context, jobType string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("job.type", jobType),
	}

	if success {
		if jobsCompleted != nil {
			jobsCompleted.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	} else {
		if jobsFailed != nil {
			jobsFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	if jobsDuration != nil {
		jobsDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	}
}
