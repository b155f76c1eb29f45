package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductQuery narrows catalog listings
type ProductQuery struct {
	shared.Filter
	CategoryID   *uuid.UUID
	ActiveOnly   bool
	FeaturedOnly bool
}

// ProductRepository defines product persistence
type ProductRepository interface {
	// FindByID returns shared.ErrProductNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate locks the row for the rest of the transaction where supported
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs returns the products found, keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Product, error)

	// List returns a page of products and the total count
	List(ctx context.Context, query ProductQuery) ([]Product, int64, error)

	// FindRelated returns other active products of the same category
	FindRelated(ctx context.Context, product *Product, limit int) ([]Product, error)

	// FindLowStock returns active products with stock below threshold, lowest first
	FindLowStock(ctx context.Context, threshold, limit int) ([]Product, error)

	// FindInactiveUnreferenced returns inactive products with no order line items
	FindInactiveUnreferenced(ctx context.Context) ([]Product, error)

	// Save creates or updates a product. Stock is written only on create;
	// later changes go through the inventory ledger.
	Save(ctx context.Context, product *Product) error

	// HasOrderLines reports whether any order line item references the product
	HasOrderLines(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete hard-deletes the product together with its cart items and reviews.
	// Returns shared.ErrProductInUse if line items reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteInactive is Delete restricted to inactive products.
	// Returns shared.ErrValidation if the product was reactivated.
	DeleteInactive(ctx context.Context, id uuid.UUID) error

	// CountActive counts active products
	CountActive(ctx context.Context) (int64, error)
}

// CategoryRepository defines category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, activeOnly bool) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
}

// ReviewRepository defines review persistence
type ReviewRepository interface {
	// Create inserts a review; shared.ErrAlreadyExists when the user already reviewed the product
	Create(ctx context.Context, review *Review) error
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]Review, error)
	Summarize(ctx context.Context, productID uuid.UUID) (ReviewSummary, error)
}
