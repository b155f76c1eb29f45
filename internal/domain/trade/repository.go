package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderQuery narrows order listings
type OrderQuery struct {
	shared.Filter
	UserID *uuid.UUID
	Status *OrderStatus
}

// OrderRepository defines order persistence
type OrderRepository interface {
	// Create inserts the order and all of its line items
	Create(ctx context.Context, order *Order) error

	// FindByID loads an order with its line items; shared.ErrOrderNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate is FindByID holding a row lock where supported
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// List returns a page of orders (without line items) and the total count
	List(ctx context.Context, query OrderQuery) ([]Order, int64, error)

	// FindIDsByStatus lists the IDs of all orders in a status
	FindIDsByStatus(ctx context.Context, status OrderStatus) ([]uuid.UUID, error)

	// UpdateStatus persists a status change; shared.ErrOrderNotFound when absent
	UpdateStatus(ctx context.Context, order *Order) error

	// Delete removes the order and its line items.
	// Returns shared.ErrOrderNotFound if the order row was already gone.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all orders
	Count(ctx context.Context) (int64, error)

	// SumTotalByStatus adds up order totals in a status
	SumTotalByStatus(ctx context.Context, status OrderStatus) (decimal.Decimal, error)
}
