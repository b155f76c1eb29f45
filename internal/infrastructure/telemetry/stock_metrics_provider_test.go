package telemetry_test

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockMetricsProvider_StockHealth(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	provider := telemetry.NewGormStockMetricsProvider(db.DB, 5)

	low, soldOut, err := provider.StockHealth(context.Background())
	require.NoError(t, err)
	assert.Zero(t, low)
	assert.Zero(t, soldOut)

	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Empty", Price: "1.00", Stock: 0})
	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Few", Price: "1.00", Stock: 4})
	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Plenty", Price: "1.00", Stock: 50})
	testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Hidden", Price: "1.00", Stock: 0, Inactive: true})

	low, soldOut, err = provider.StockHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), low)
	assert.Equal(t, int64(1), soldOut)
}
