package persistence_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCartRepository_UpsertKeepsOneRowPerProduct(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormCartRepository(db)
	user := testutil.SeedUser(t, db, identity.RoleCustomer)
	p := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 10})

	first, err := cart.NewItem(user.ID, p, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	// a second line for the same product collapses onto the first row
	second, err := cart.NewItem(user.ID, p, 5)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, second))

	lines, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, first.ID, lines[0].ID)
	assert.Equal(t, 5, lines[0].Quantity)

	found, err := repo.FindByUserAndProduct(ctx, user.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 5, found.Quantity)

	missing, err := repo.FindByUserAndProduct(ctx, user.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormCartRepository_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormCartRepository(db)
	owner := testutil.SeedUser(t, db, identity.RoleCustomer)
	other := testutil.SeedUser(t, db, identity.RoleCustomer)
	p := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 3})

	item, err := cart.NewItem(owner.ID, p, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, item))

	_, err = repo.FindByIDForUser(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, shared.ErrItemNotFound)
	assert.ErrorIs(t, repo.DeleteForUser(ctx, other.ID, item.ID), shared.ErrItemNotFound)

	require.NoError(t, repo.DeleteForUser(ctx, owner.ID, item.ID))
	assert.ErrorIs(t, repo.DeleteForUser(ctx, owner.ID, item.ID), shared.ErrItemNotFound)
}

func TestGormCartRepository_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t).DB
	repo := persistence.NewGormCartRepository(db)
	user := testutil.SeedUser(t, db, identity.RoleCustomer)

	for i := 0; i < 3; i++ {
		p := testutil.SeedProduct(t, db, testutil.ProductSpec{Stock: 5})
		item, err := cart.NewItem(user.ID, p, 1)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, item))
	}

	removed, err := repo.DeleteByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	removed, err = repo.DeleteByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
