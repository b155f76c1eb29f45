package persistence_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_SaveDoesNotOverwriteStock(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)
	ledger := persistence.NewGormStockLedger(db)

	p := testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "Kettle", Stock: 8})
	require.NoError(t, ledger.Reserve(ctx, p.ID, 5))

	// p still carries the stale stock value 8
	require.NoError(t, p.Update(catalog.ProductDetails{Name: "Steel Kettle", Price: decimal.RequireFromString("24.50")}))
	require.NoError(t, repo.Save(ctx, p))

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steel Kettle", stored.Name)
	assert.True(t, decimal.RequireFromString("24.50").Equal(stored.Price))
	assert.Equal(t, 3, stored.Stock)
}

func TestGormProductRepository_SavePersistsDeactivation(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)

	p := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 1})
	p.Deactivate()
	require.NoError(t, repo.Save(ctx, p))

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestGormProductRepository_FindByID_NotFound(t *testing.T) {
	repo := persistence.NewGormProductRepository(testutil.NewSQLiteDB(t).DB)
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrProductNotFound)
}

func TestGormProductRepository_List(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)
	category := testutil.SeedCategory(t, db, "Kitchen")

	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "Café Press", Price: "30.00", CategoryID: &category.ID})
	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "Tea Pot", Price: "12.00", CategoryID: &category.ID})
	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "100% Cotton Towel", Price: "8.00"})
	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "Hidden Cafe", Inactive: true})

	t.Run("active only sorted by price", func(t *testing.T) {
		q := catalog.ProductQuery{Filter: shared.Filter{OrderBy: "price", OrderDir: "asc"}, ActiveOnly: true}
		products, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, products, 3)
		assert.Equal(t, "100% Cotton Towel", products[0].Name)
		assert.Equal(t, "Café Press", products[2].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		q := catalog.ProductQuery{ActiveOnly: true, CategoryID: &category.ID}
		_, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		q := catalog.ProductQuery{Filter: shared.Filter{Search: "CAFE"}}
		products, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, products, 1)
		assert.Equal(t, "Hidden Cafe", products[0].Name)
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		q := catalog.ProductQuery{Filter: shared.Filter{Search: "100%"}}
		_, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("paging", func(t *testing.T) {
		q := catalog.ProductQuery{Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "name", OrderDir: "asc"}}
		products, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, products, 2)
	})
}

func TestGormProductRepository_FindLowStock(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)

	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "B", Stock: 4})
	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "A", Stock: 0})
	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "C", Stock: 10})
	testutil.SeedProduct(t, db, testutil.ProductSpec{Name: "D", Stock: 1, Inactive: true})

	products, err := repo.FindLowStock(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, "B", products[1].Name)
}

func TestGormProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)
	carts := persistence.NewGormCartRepository(db)
	user := testutil.SeedUser(t, db, identity.RoleCustomer)

	t.Run("removes cart lines and reviews", func(t *testing.T) {
		p := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 5})
		item, err := cart.NewItem(user.ID, p, 1)
		require.NoError(t, err)
		require.NoError(t, carts.Upsert(ctx, item))
		review, err := catalog.NewReview(user.ID, p, 4, "fine")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormReviewRepository(db).Create(ctx, review))

		require.NoError(t, repo.Delete(ctx, p.ID))

		_, err = repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
		lines, err := carts.FindByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("refuses products referenced by orders", func(t *testing.T) {
		p := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 5})
		order, err := trade.NewOrder(user.ID, "1 Main St", []trade.LineDraft{
			{ProductID: p.ID, ProductName: p.Name, Quantity: 1, UnitPrice: p.Price},
		})
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormOrderRepository(db).Create(ctx, order))

		assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrProductInUse)
		_, err = repo.FindByID(ctx, p.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrProductNotFound)
	})
}

func TestGormProductRepository_DeleteInactive(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)

	t.Run("deletes an inactive product", func(t *testing.T) {
		p := testutil.SeedProduct(t, db, testutil.ProductSpec{Inactive: true})

		require.NoError(t, repo.DeleteInactive(ctx, p.ID))

		_, err := repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})

	t.Run("keeps a product reactivated after it was listed", func(t *testing.T) {
		p := testutil.SeedProduct(t, db, testutil.ProductSpec{Inactive: true})
		listed, err := repo.FindInactiveUnreferenced(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, listed)

		p.Activate()
		require.NoError(t, repo.Save(ctx, p))

		err = repo.DeleteInactive(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrValidation)
		kept, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, kept.Active)
	})
}

func TestGormProductRepository_FindInactiveUnreferenced(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormProductRepository(db)
	user := testutil.SeedUser(t, db, identity.RoleCustomer)

	orphan := testutil.SeedProduct(t, db, testutil.ProductSpec{Inactive: true})
	ordered := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 2})
	testutil.SeedProduct(t, db, testutil.ProductSpec{})

	order, err := trade.NewOrder(user.ID, "1 Main St", []trade.LineDraft{
		{ProductID: ordered.ID, ProductName: ordered.Name, Quantity: 1, UnitPrice: ordered.Price},
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormOrderRepository(db).Create(ctx, order))
	ordered.Deactivate()
	require.NoError(t, repo.Save(ctx, ordered))

	products, err := repo.FindInactiveUnreferenced(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, orphan.ID, products[0].ID)
}
