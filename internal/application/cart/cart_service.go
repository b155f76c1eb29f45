// Package cart implements the customer cart use cases
package cart

import (
	"context"

	"github.com/google/uuid"
	appinv "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService manages cart lines. Quantities are checked against stock
// when written; stock itself is only taken at checkout.
type CartService struct {
	scope    appinv.TransactionScope
	items    cart.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a CartService
func NewCartService(scope appinv.TransactionScope, items cart.Repository, products catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		scope:    scope,
		items:    items,
		products: products,
		logger:   logger,
	}
}

// AddOrMerge adds quantity of a product. An existing line for the product
// grows by quantity; if that would exceed stock nothing changes.
func (s *CartService) AddOrMerge(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be greater than zero")
	}

	var stored *cart.Item
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		// the product row lock serializes concurrent merges into one line
		product, err := repos.Products().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		items := repos.Carts()
		item, err := items.FindByUserAndProduct(ctx, userID, product.ID)
		if err != nil {
			return err
		}
		if item == nil {
			item, err = cart.NewItem(userID, product, req.Quantity)
		} else {
			err = item.Merge(product, req.Quantity)
		}
		if err != nil {
			return err
		}
		if err := items.Upsert(ctx, item); err != nil {
			return err
		}
		stored, err = items.FindByUserAndProduct(ctx, userID, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := ToItemResponse(stored)
	return &resp, nil
}

// SetQuantity replaces the quantity of one of the user's lines
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be greater than zero")
	}

	var item *cart.Item
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		item, err = repos.Carts().FindByIDForUser(ctx, userID, itemID)
		if err != nil {
			return err
		}
		product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := item.SetQuantity(product, req.Quantity); err != nil {
			return err
		}
		return repos.Carts().Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	resp := ToItemResponse(item)
	return &resp, nil
}

// Remove deletes one of the user's lines
func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.items.DeleteForUser(ctx, userID, itemID)
}

// Clear empties the cart and returns the number of removed lines
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.items.DeleteByUser(ctx, userID)
}

// Snapshot prices the cart. Lines whose product is inactive are left out.
func (s *CartService) Snapshot(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	snap, err := cart.LoadSnapshot(ctx, s.items, s.products, userID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(snap)
	return &resp, nil
}
