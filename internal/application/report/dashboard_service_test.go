package report_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	appreport "github.com/storefront/backend/internal/application/report"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, owner *identity.User, status trade.OrderStatus, line trade.LineDraft) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(owner.ID, "1 Main St", []trade.LineDraft{line})
	require.NoError(t, err)
	repo := persistence.NewGormOrderRepository(db)
	require.NoError(t, repo.Create(context.Background(), order))
	if status != trade.OrderStatusPending {
		order.Status = status
		require.NoError(t, repo.UpdateStatus(context.Background(), order))
	}
	return order
}

func TestDashboardService_Stats(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	svc := appreport.NewDashboardService(
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormOrderRepository(db.DB),
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormReportRepository(db.DB),
		5,
		zaptest.NewLogger(t),
	)

	customer := testutil.SeedUser(t, db.DB, identity.RoleCustomer)
	testutil.SeedUser(t, db.DB, identity.RoleAdmin)
	plenty := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Plenty", Price: "10.00", Stock: 50})
	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Low", Stock: 2})
	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Gone", Stock: 0})
	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Hidden", Stock: 1, Inactive: true})

	line := func(qty int) trade.LineDraft {
		return trade.LineDraft{ProductID: plenty.ID, ProductName: plenty.Name, Quantity: qty, UnitPrice: plenty.Price}
	}
	seedOrder(t, db.DB, customer, trade.OrderStatusDelivered, line(2))
	seedOrder(t, db.DB, customer, trade.OrderStatusDelivered, line(3))
	seedOrder(t, db.DB, customer, trade.OrderStatusPending, line(1))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.ActiveProducts)
	assert.EqualValues(t, 3, stats.Orders)
	assert.EqualValues(t, 1, stats.Customers)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(50)), "delivered orders only, got %s", stats.Revenue)
	assert.Len(t, stats.RecentOrders, 3)
	require.Len(t, stats.LowStock, 2)
	assert.Equal(t, "Gone", stats.LowStock[0].Name)
	assert.Equal(t, "Low", stats.LowStock[1].Name)
	assert.Equal(t, 5, stats.LowStockThreshold)
}

func TestSnapshotService(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	svc := appreport.NewSnapshotService(persistence.NewGormReportRepository(db.DB))
	category := testutil.SeedCategory(t, db.DB, "Garden")
	p := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Rake", CategoryID: &category.ID})
	customer := testutil.SeedUser(t, db.DB, identity.RoleCustomer)
	seedOrder(t, db.DB, customer, trade.OrderStatusPending, trade.LineDraft{ProductID: p.ID, ProductName: p.Name, Quantity: 2, UnitPrice: p.Price})

	products, err := svc.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Garden", products[0].CategoryName)

	orders, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, customer.Email, orders[0].CustomerEmail)
	assert.EqualValues(t, 1, orders[0].ItemCount)

	customers, err := svc.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.EqualValues(t, 1, customers[0].OrderCount)
}
