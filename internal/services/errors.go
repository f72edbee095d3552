package services

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrMissingOrderInfo = errors.New("missing required order information")
	ErrInvalidStatus    = errors.New("invalid order status")
)

// ProductNotFoundError aborts order creation when a line item references a
// product that does not exist. The message is surfaced to the client as-is.
type ProductNotFoundError struct {
	ProductID uint64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError aborts order creation when managed stock cannot
// cover the requested quantity.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %q", e.ProductName)
}
