package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// Repository defines cart persistence
type Repository interface {
	// FindByUserAndProduct returns nil, nil when the user has no line for the product
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Item, error)

	// FindByIDForUser returns shared.ErrItemNotFound when absent or owned by someone else
	FindByIDForUser(ctx context.Context, userID, itemID uuid.UUID) (*Item, error)

	// FindByUser lists the user's lines, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)

	// Upsert inserts the line or overwrites the quantity of the existing (user, product) row
	Upsert(ctx context.Context, item *Item) error

	// DeleteForUser removes one line; shared.ErrItemNotFound when nothing matched
	DeleteForUser(ctx context.Context, userID, itemID uuid.UUID) error

	// DeleteByUser empties the cart and returns the number of removed lines
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// LoadSnapshot prices the user's cart against current product rows
func LoadSnapshot(ctx context.Context, items Repository, products catalog.ProductRepository, userID uuid.UUID) (*Snapshot, error) {
	lines, err := items.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(userID, lines, found), nil
}
