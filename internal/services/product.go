package services

import (
	"context"
	"errors"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/models"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

var (
	tracer                 = otel.Tracer("inventory-sales-tracker")
	meter                  = otel.Meter("inventory-sales-tracker")
	productsCreatedCounter metric.Int64Counter
	productsDeletedCounter metric.Int64Counter
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	var err error
	productsCreatedCounter, err = meter.Int64Counter(
		"products.created",
		metric.WithDescription("Total number of products created"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create products created counter")
	}

	productsDeletedCounter, err = meter.Int64Counter(
		"products.deleted",
		metric.WithDescription("Total number of product delete requests"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create products deleted counter")
	}

	return &ProductService{db: db}
}

// List returns every product, lowest stock first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	ctx, span := tracer.Start(ctx, "product.list")
	defer span.End()

	var products []models.Product
	if err := s.db.WithContext(ctx).Order("stock ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, infraErr("list products", err)
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// Inventory is the dashboard view: the ordered product list with its total
// stock value.
func (s *ProductService) Inventory(ctx context.Context) (*models.InventoryResponse, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}

	return &models.InventoryResponse{
		Products:   responses,
		TotalValue: sumStockValue(products),
		Count:      len(products),
	}, nil
}

func (s *ProductService) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "product.total_stock_value")
	defer span.End()

	return totalStockValue(ctx, s.db)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "product.get")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", int64(id)))

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, infraErr("get product", err)
	}

	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, operatorID uint, input CreateProductInput) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "product.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", input.Name),
		attribute.Int64("operator.id", int64(operatorID)),
	)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:              input.Name,
		Price:             input.Price,
		Stock:             input.Stock,
		LowStockThreshold: input.LowStockThreshold,
		ImageURL:          input.ImageURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Product{}).Where("name = ?", input.Name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateName
		}
		return tx.Create(&product).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateName) || errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetAttributes(attribute.Bool("product.duplicate", true))
			return nil, ErrDuplicateName
		}
		return nil, infraErr("create product", err)
	}

	if productsCreatedCounter != nil {
		productsCreatedCounter.Add(ctx, 1)
	}

	span.SetAttributes(attribute.Int64("product.id", int64(product.ID)))

	logging.Info(ctx).
		Uint("product_id", product.ID).
		Uint("operator_id", operatorID).
		Str("name", product.Name).
		Int("stock", product.Stock).
		Msg("product created")

	return &product, nil
}

// Delete removes the product if it exists. Deleting an unknown id is not an
// error. Sales referencing the product are kept.
func (s *ProductService) Delete(ctx context.Context, id, operatorID uint) error {
	ctx, span := tracer.Start(ctx, "product.delete")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", int64(id)),
		attribute.Int64("operator.id", int64(operatorID)),
	)

	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return infraErr("delete product", result.Error)
	}

	if productsDeletedCounter != nil {
		productsDeletedCounter.Add(ctx, 1)
	}

	span.SetAttributes(attribute.Int64("result.rows_affected", result.RowsAffected))

	logging.Info(ctx).
		Uint("product_id", id).
		Uint("operator_id", operatorID).
		Int64("rows_affected", result.RowsAffected).
		Msg("product deleted")

	return nil
}

func totalStockValue(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var products []models.Product
	if err := db.WithContext(ctx).Select("price", "stock").Find(&products).Error; err != nil {
		return decimal.Zero, infraErr("total stock value", err)
	}
	return sumStockValue(products), nil
}

func sumStockValue(products []models.Product) decimal.Decimal {
	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].StockValue())
	}
	return total
}
