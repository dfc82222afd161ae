package services

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName      = errors.New("product name already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrOperatorExists     = errors.New("operator already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed or out-of-range input. No state has been
// changed when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientStockError is returned when a sale asks for more units than
// are on hand. Remaining is the stock observed inside the transaction.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Sale failed: Only %d units of stock remaining.", e.Remaining)
}

// InfrastructureError wraps a storage failure. Any transaction in flight has
// been rolled back by the time it reaches the caller.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func infraErr(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInsufficientStock(err error) bool {
	var ie *InsufficientStockError
	return errors.As(err, &ie)
}
