package report

import (
	"context"

	"github.com/storefront/backend/internal/domain/report"
)

// SnapshotService hands out the plain record sets that external
// spreadsheet and PDF renderers consume
type SnapshotService struct {
	records report.Repository
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(records report.Repository) *SnapshotService {
	return &SnapshotService{records: records}
}

// Products lists every product with its category name
func (s *SnapshotService) Products(ctx context.Context) ([]report.ProductRecord, error) {
	return s.records.ProductRecords(ctx)
}

// Orders lists every order, newest first
func (s *SnapshotService) Orders(ctx context.Context) ([]report.OrderRecord, error) {
	return s.records.OrderRecords(ctx, 0)
}

// Customers lists customers with their order counts
func (s *SnapshotService) Customers(ctx context.Context) ([]report.CustomerRecord, error) {
	return s.records.CustomerRecords(ctx)
}
