package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockMetricsProvider counts stock health straight from the products table
type GormStockMetricsProvider struct {
	db        *gorm.DB
	threshold int
}

// NewGormStockMetricsProvider creates the provider. Products with stock
// below threshold count as low.
func NewGormStockMetricsProvider(db *gorm.DB, threshold int) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db, threshold: threshold}
}

// StockHealth returns the number of active products running low and sold out
func (p *GormStockMetricsProvider) StockHealth(ctx context.Context) (low, soldOut int64, err error) {
	row := p.db.WithContext(ctx).
		Table("products").
		Select("COALESCE(SUM(CASE WHEN stock < ? THEN 1 ELSE 0 END), 0), COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0)", p.threshold).
		Where("active = ?", true).
		Row()
	if err := row.Scan(&low, &soldOut); err != nil {
		return 0, 0, err
	}
	return low, soldOut, nil
}
