package models

import (
	"errors"
	"fmt"
)

// Business-rule errors raised by the services and translated to HTTP statuses
// at the handler boundary.
var (
	// ErrNotFound covers entities that are absent or inactive.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart rejects order placement against a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrIncompleteDeliveryInfo rejects order placement without a delivery
	// name, phone and address.
	ErrIncompleteDeliveryInfo = errors.New("delivery name, phone and address are required")

	// ErrRatingOutOfRange rejects review ratings outside [1,5].
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

	// ErrInvalidOrderStatus rejects unknown order statuses.
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OutOfStockError is returned when a requested quantity exceeds the current
// stock. Available carries the remaining count for the user-facing message.
type OutOfStockError struct {
	BookTitle string
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("only %d left in stock for %q", e.Available, e.BookTitle)
}
