package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultLowStockLimit caps the low stock listing when no limit is given
const DefaultLowStockLimit = 50

// LedgerService runs stock changes, each in its own transaction
type LedgerService struct {
	scope     TransactionScope
	products  catalog.ProductRepository
	threshold int
	logger    *zap.Logger
}

// NewLedgerService creates a LedgerService. A non-positive threshold falls
// back to inventory.DefaultLowStockThreshold.
func NewLedgerService(scope TransactionScope, products catalog.ProductRepository, threshold int, logger *zap.Logger) *LedgerService {
	if threshold <= 0 {
		threshold = inventory.DefaultLowStockThreshold
	}
	return &LedgerService{
		scope:     scope,
		products:  products,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the configured low stock threshold
func (s *LedgerService) Threshold() int {
	return s.threshold
}

// Reserve takes quantity units from the product
func (s *LedgerService) Reserve(ctx context.Context, productID uuid.UUID, quantity int) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Ledger().Reserve(ctx, productID, quantity)
	})
}

// Restore returns quantity units to the product
func (s *LedgerService) Restore(ctx context.Context, productID uuid.UUID, quantity int) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Ledger().Restore(ctx, productID, quantity)
	})
}

// AdjustStock overwrites the stock level of a product
func (s *LedgerService) AdjustStock(ctx context.Context, productID uuid.UUID, req AdjustStockRequest) (*StockLevelResponse, error) {
	if req.Stock == nil {
		return nil, shared.NewValidationError("Stock is required")
	}
	if *req.Stock < 0 {
		return nil, shared.NewValidationError("Stock cannot be negative")
	}

	var level int
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := repos.Ledger()
		if err := ledger.Set(ctx, productID, *req.Stock); err != nil {
			return err
		}
		var err error
		level, err = ledger.Level(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int("stock", level),
	)
	return &StockLevelResponse{ProductID: productID, Stock: level}, nil
}

// LowStock lists active products below threshold, lowest stock first.
// Zero values use the configured threshold and DefaultLowStockLimit.
func (s *LedgerService) LowStock(ctx context.Context, threshold, limit int) ([]LowStockItem, error) {
	if threshold <= 0 {
		threshold = s.threshold
	}
	if limit <= 0 {
		limit = DefaultLowStockLimit
	}
	products, err := s.products.FindLowStock(ctx, threshold, limit)
	if err != nil {
		return nil, err
	}
	return ToLowStockItems(products), nil
}
