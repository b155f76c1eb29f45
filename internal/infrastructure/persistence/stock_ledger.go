package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockLedger implements inventory.Ledger on the products.stock column
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Reserve decrements stock with a single conditional UPDATE. The stock
// guard lives in the WHERE clause, so the row lock taken by the update is
// the only synchronization two concurrent reservations need.
func (l *GormStockLedger) Reserve(ctx context.Context, productID uuid.UUID, quantity int) error {
	if err := inventory.ValidateReservation(quantity); err != nil {
		return err
	}

	result := l.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND active = ? AND stock >= ?", productID, true, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 1 {
		return nil
	}
	return l.classifyReserveFailure(ctx, productID, quantity)
}

// classifyReserveFailure explains why the conditional update matched nothing
func (l *GormStockLedger) classifyReserveFailure(ctx context.Context, productID uuid.UUID, quantity int) error {
	var row models.ProductModel
	err := l.db.WithContext(ctx).
		Select("id", "name", "active", "stock").
		Where("id = ?", productID).
		Take(&row).Error
	if err != nil {
		return translateError(err, shared.ErrProductNotFound)
	}
	if !row.Active {
		return shared.ErrProductInactive.WithMessage("%s is not available", row.Name)
	}
	return inventory.StockExceeded(row.Name, quantity, row.Stock)
}

// Restore increments stock. There is no upper bound.
func (l *GormStockLedger) Restore(ctx context.Context, productID uuid.UUID, quantity int) error {
	if err := inventory.ValidateRestore(quantity); err != nil {
		return err
	}
	return l.update(ctx, productID, gorm.Expr("stock + ?", quantity))
}

// Set overwrites the stock level
func (l *GormStockLedger) Set(ctx context.Context, productID uuid.UUID, stock int) error {
	if stock < 0 {
		return shared.NewValidationError("Stock cannot be negative")
	}
	return l.update(ctx, productID, stock)
}

func (l *GormStockLedger) update(ctx context.Context, productID uuid.UUID, stock any) error {
	result := l.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      stock,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrProductNotFound
	}
	return nil
}

// Level returns the current stock level
func (l *GormStockLedger) Level(ctx context.Context, productID uuid.UUID) (int, error) {
	var row models.ProductModel
	err := l.db.WithContext(ctx).
		Select("id", "stock").
		Where("id = ?", productID).
		Take(&row).Error
	if err != nil {
		return 0, translateError(err, shared.ErrProductNotFound)
	}
	return row.Stock, nil
}

var _ inventory.Ledger = (*GormStockLedger)(nil)
