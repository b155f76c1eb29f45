// Package report assembles the admin dashboard and the flat record sets
// exported by the reporting endpoints
package report

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// DashboardListSize is how many recent orders and low-stock products the dashboard shows
const DashboardListSize = 5

// DashboardStats summarizes the store for administrators
type DashboardStats struct {
	ActiveProducts    int64                `json:"active_products"`
	Orders            int64                `json:"orders"`
	Customers         int64                `json:"customers"`
	Revenue           decimal.Decimal      `json:"revenue"`
	RecentOrders      []report.OrderRecord `json:"recent_orders"`
	LowStock          []LowStockProduct    `json:"low_stock"`
	LowStockThreshold int                  `json:"low_stock_threshold"`
}

// LowStockProduct is a dashboard low-stock row
type LowStockProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// DashboardService computes dashboard statistics
type DashboardService struct {
	products  catalog.ProductRepository
	orders    trade.OrderRepository
	users     identity.UserRepository
	records   report.Repository
	threshold int
	logger    *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	products catalog.ProductRepository,
	orders trade.OrderRepository,
	users identity.UserRepository,
	records report.Repository,
	lowStockThreshold int,
	logger *zap.Logger,
) *DashboardService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &DashboardService{
		products:  products,
		orders:    orders,
		users:     users,
		records:   records,
		threshold: lowStockThreshold,
		logger:    logger,
	}
}

// Stats returns counts, revenue from delivered orders, the most recent
// orders and the active products lowest on stock
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{LowStockThreshold: s.threshold}
	var err error

	if stats.ActiveProducts, err = s.products.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.Orders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Customers, err = s.users.CountByRole(ctx, identity.RoleCustomer); err != nil {
		return nil, err
	}
	if stats.Revenue, err = s.orders.SumTotalByStatus(ctx, trade.OrderStatusDelivered); err != nil {
		return nil, err
	}
	if stats.RecentOrders, err = s.records.OrderRecords(ctx, DashboardListSize); err != nil {
		return nil, err
	}

	low, err := s.products.FindLowStock(ctx, s.threshold, DashboardListSize)
	if err != nil {
		return nil, err
	}
	stats.LowStock = make([]LowStockProduct, len(low))
	for i, p := range low {
		stats.LowStock[i] = LowStockProduct{ID: p.ID.String(), Name: p.Name, Stock: p.Stock}
	}

	s.logger.Debug("Dashboard stats computed",
		zap.Int64("orders", stats.Orders),
		zap.Int("low_stock", len(stats.LowStock)),
	)
	return stats, nil
}
