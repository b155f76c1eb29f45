// Package inventory holds the stock ledger contract. Stock is a single
// non-negative counter per product; every change goes through a Ledger.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultLowStockThreshold marks products that need restocking
const DefaultLowStockThreshold = 10

// Ledger applies stock changes atomically.
//
// Reserve must be implemented as a single conditional decrement so that two
// concurrent reservations can never jointly take stock below zero.
type Ledger interface {
	// Reserve decrements stock by quantity.
	// Fails with shared.ErrProductNotFound, shared.ErrProductInactive or shared.ErrStockExceeded.
	Reserve(ctx context.Context, productID uuid.UUID, quantity int) error

	// Restore increments stock by quantity. No upper bound is enforced.
	Restore(ctx context.Context, productID uuid.UUID, quantity int) error

	// Set overwrites the stock level
	Set(ctx context.Context, productID uuid.UUID, stock int) error

	// Level returns the current stock level
	Level(ctx context.Context, productID uuid.UUID) (int, error)
}

// ValidateReservation checks a reservation quantity
func ValidateReservation(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	return nil
}

// ValidateRestore checks a restore quantity
func ValidateRestore(quantity int) error {
	if quantity < 0 {
		return shared.NewValidationError("Quantity cannot be negative")
	}
	return nil
}

// StockExceeded builds a stock error naming the product
func StockExceeded(productName string, requested, available int) *shared.DomainError {
	return shared.ErrStockExceeded.WithMessage(
		"Insufficient stock for %s: requested %d, available %d", productName, requested, available)
}

// Movement records a single stock change, used by events and logs
type Movement struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
