package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultSalesLimit = 50
	maxSalesLimit     = 500
)

var (
	salesProcessedCounter metric.Int64Counter
	salesRejectedCounter  metric.Int64Counter
	unitsSoldCounter      metric.Int64Counter
)

// LowStockNotifier is told about products left at or below their threshold
// by a committed sale.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, product models.Product) error
}

type SaleService struct {
	db       *gorm.DB
	notifier LowStockNotifier
	now      func() time.Time
}

// NewSaleService returns a sale processor over db. notifier may be nil.
func NewSaleService(db *gorm.DB, notifier LowStockNotifier) *SaleService {
	var err error
	salesProcessedCounter, err = meter.Int64Counter(
		"sales.processed",
		metric.WithDescription("Total number of sales committed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create sales processed counter")
	}

	salesRejectedCounter, err = meter.Int64Counter(
		"sales.rejected",
		metric.WithDescription("Total number of sales rejected or rolled back"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create sales rejected counter")
	}

	unitsSoldCounter, err = meter.Int64Counter(
		"sales.units_sold",
		metric.WithDescription("Total number of units sold"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create units sold counter")
	}

	return &SaleService{
		db:       db,
		notifier: notifier,
		now:      time.Now,
	}
}

// Process sells input.Quantity units of a product. The stock check, the
// stock decrement and the sale insert run in one transaction holding a row
// lock on the product; every failure path rolls back.
func (s *SaleService) Process(ctx context.Context, operatorID uint, input SaleInput) (*models.SaleResponse, error) {
	ctx, span := tracer.Start(ctx, "sale.process")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("operator.id", int64(operatorID)),
		attribute.Int64("product.id", int64(input.ProductID)),
		attribute.Int("sale.quantity", input.Quantity),
	)

	if input.Quantity <= 0 {
		s.recordRejected(ctx, "invalid_quantity")
		return nil, newValidationError("quantity", "Quantity must be a positive number.")
	}

	var (
		product models.Product
		sale    models.Sale
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if product.Stock < input.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: input.Quantity,
				Remaining: product.Stock,
			}
		}

		result := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, input.Quantity).
			Update("stock", gorm.Expr("stock - ?", input.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("stock update affected %d rows", result.RowsAffected)
		}
		product.Stock -= input.Quantity

		sale = models.Sale{
			ProductID: product.ID,
			Quantity:  input.Quantity,
			SaleDate:  s.now().UTC().Truncate(time.Second),
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrProductNotFound):
			s.recordRejected(ctx, "not_found")
			return nil, ErrProductNotFound
		case errors.As(err, &stockErr):
			s.recordRejected(ctx, "insufficient_stock")
			logging.Info(ctx).
				Uint("product_id", stockErr.ProductID).
				Int("requested", stockErr.Requested).
				Int("remaining", stockErr.Remaining).
				Msg("sale rejected: insufficient stock")
			return nil, stockErr
		default:
			s.recordRejected(ctx, "infrastructure")
			span.RecordError(err)
			logging.Error(ctx).Err(err).
				Uint("product_id", input.ProductID).
				Uint("operator_id", operatorID).
				Msg("sale rolled back")
			return nil, infraErr("process sale", err)
		}
	}

	if salesProcessedCounter != nil {
		salesProcessedCounter.Add(ctx, 1)
	}
	if unitsSoldCounter != nil {
		unitsSoldCounter.Add(ctx, int64(input.Quantity))
	}

	span.SetAttributes(
		attribute.Int64("sale.id", int64(sale.ID)),
		attribute.Int("product.remaining_stock", product.Stock),
	)

	logging.Info(ctx).
		Uint("sale_id", sale.ID).
		Uint("product_id", product.ID).
		Uint("operator_id", operatorID).
		Int("quantity", sale.Quantity).
		Int("remaining_stock", product.Stock).
		Msg("sale processed")

	if product.IsLowStock() && s.notifier != nil {
		if err := s.notifier.NotifyLowStock(ctx, product); err != nil {
			logging.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("failed to queue low stock alert")
		}
	}

	return &models.SaleResponse{
		Sale:           sale,
		RemainingStock: product.Stock,
		LowStock:       product.IsLowStock(),
		Message:        fmt.Sprintf("Sale processed successfully: %d units sold.", sale.Quantity),
	}, nil
}

// List returns the most recent sales, newest first, with the current name of
// each product.
func (s *SaleService) List(ctx context.Context, limit int) ([]models.SaleRecord, error) {
	ctx, span := tracer.Start(ctx, "sale.list")
	defer span.End()

	if limit < 1 {
		limit = defaultSalesLimit
	}
	if limit > maxSalesLimit {
		limit = maxSalesLimit
	}

	records, err := s.records(ctx, limit)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(records)))
	return records, nil
}

// All returns the full sales history, newest first.
func (s *SaleService) All(ctx context.Context) ([]models.SaleRecord, error) {
	ctx, span := tracer.Start(ctx, "sale.all")
	defer span.End()

	return s.records(ctx, -1)
}

func (s *SaleService) records(ctx context.Context, limit int) ([]models.SaleRecord, error) {
	records := make([]models.SaleRecord, 0)
	if err := s.db.WithContext(ctx).
		Table("sales").
		Select("sales.id, sales.product_id, COALESCE(products.name, '') AS product_name, sales.quantity, sales.sale_date").
		Joins("LEFT JOIN products ON products.id = sales.product_id").
		Order("sales.sale_date DESC").
		Order("sales.id DESC").
		Limit(limit).
		Scan(&records).Error; err != nil {
		return nil, infraErr("list sales", err)
	}
	return records, nil
}

func (s *SaleService) recordRejected(ctx context.Context, reason string) {
	if salesRejectedCounter != nil {
		salesRejectedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}
