package services

import (
	"context"
	"errors"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var watchTogglesCounter metric.Int64Counter

type WatchlistService struct {
	db *gorm.DB
}

func NewWatchlistService(db *gorm.DB) *WatchlistService {
	var err error
	watchTogglesCounter, err = meter.Int64Counter(
		"watchlist.toggles",
		metric.WithDescription("Total number of watchlist flag changes"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create watchlist toggles counter")
	}

	return &WatchlistService{db: db}
}

// Toggle flips the watch flag of a product and returns the stored value.
func (s *WatchlistService) Toggle(ctx context.Context, productID uint) (bool, error) {
	ctx, span := tracer.Start(ctx, "watchlist.toggle")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", int64(productID)))

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "is_watched").
			First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		product.IsWatched = !product.IsWatched
		return tx.Model(&product).Update("is_watched", product.IsWatched).Error
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return false, ErrProductNotFound
		}
		return false, infraErr("toggle watchlist", err)
	}

	if watchTogglesCounter != nil {
		watchTogglesCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("watched", product.IsWatched)))
	}

	span.SetAttributes(attribute.Bool("product.is_watched", product.IsWatched))

	logging.Info(ctx).
		Uint("product_id", productID).
		Bool("is_watched", product.IsWatched).
		Msg("watchlist status updated")

	return product.IsWatched, nil
}
