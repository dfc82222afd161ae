package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const numbersMessage = "Price, Stock, and Threshold must be numbers."

// maxPrice is the first value that no longer fits a decimal(12,2) column.
var maxPrice = decimal.New(1, 10)

// ProductForm carries raw product fields as submitted by a form or JSON body.
type ProductForm struct {
	Name      string
	Price     string
	Stock     string
	Threshold string
	ImageURL  string
}

type CreateProductInput struct {
	Name              string
	Price             decimal.Decimal
	Stock             int
	LowStockThreshold int
	ImageURL          string
}

// Parse coerces the raw fields into a CreateProductInput. Blank numeric
// fields take the form defaults: price 0, stock 0, threshold 1.
func (f ProductForm) Parse() (CreateProductInput, error) {
	input := CreateProductInput{
		Name:              strings.TrimSpace(f.Name),
		Price:             decimal.Zero,
		LowStockThreshold: 1,
		ImageURL:          strings.TrimSpace(f.ImageURL),
	}

	if raw := strings.TrimSpace(f.Price); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return input, newValidationError("price", numbersMessage)
		}
		input.Price = price.Round(2)
	}

	if raw := strings.TrimSpace(f.Stock); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return input, newValidationError("stock", numbersMessage)
		}
		input.Stock = stock
	}

	if raw := strings.TrimSpace(f.Threshold); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			return input, newValidationError("threshold", numbersMessage)
		}
		input.LowStockThreshold = threshold
	}

	return input, nil
}

// Validate checks the business rules for a new product.
func (in CreateProductInput) Validate() error {
	switch {
	case in.Name == "":
		return newValidationError("name", "name is required")
	case !in.Price.IsPositive():
		return newValidationError("price", "price must be greater than 0")
	case in.Price.GreaterThanOrEqual(maxPrice):
		return newValidationError("price", "price must be less than 10000000000")
	case in.Stock < 0:
		return newValidationError("stock", "stock must not be negative")
	case in.LowStockThreshold <= 0:
		return newValidationError("threshold", "threshold must be greater than 0")
	}
	return nil
}

type SaleInput struct {
	ProductID uint
	Quantity  int
}

// ParseSaleForm coerces a raw product id and quantity. A quantity that is not
// a positive integer is an invalid-quantity validation error.
func ParseSaleForm(productID, quantity string) (SaleInput, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return SaleInput{}, err
	}

	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return SaleInput{}, newValidationError("quantity", "Invalid quantity.")
	}
	if qty <= 0 {
		return SaleInput{}, newValidationError("quantity", "Quantity must be a positive number.")
	}

	return SaleInput{ProductID: id, Quantity: qty}, nil
}

// ParseProductID accepts a positive base-10 id.
func ParseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, newValidationError("product_id", "invalid product id")
	}
	return uint(id), nil
}
