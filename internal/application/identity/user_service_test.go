package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestUserService(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := appidentity.NewUserService(persistence.NewGormUserRepository(db.DB), zaptest.NewLogger(t))
	ctx := context.Background()
	admin := testutil.SeedUser(t, db.DB, identity.RoleAdmin)
	alice := testutil.SeedUser(t, db.DB, identity.RoleCustomer)
	bob := testutil.SeedUser(t, db.DB, identity.RoleCustomer)

	t.Run("lists customers only", func(t *testing.T) {
		page, err := svc.ListCustomers(ctx, appidentity.UserListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		for _, u := range page.Items {
			assert.NotEqual(t, admin.ID, u.ID)
		}
	})

	t.Run("deactivate and activate", func(t *testing.T) {
		u, err := svc.Deactivate(ctx, admin.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, u.Active)

		u, err = svc.Activate(ctx, admin.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, u.Active)
	})

	t.Run("admins cannot manage themselves", func(t *testing.T) {
		_, err := svc.Deactivate(ctx, admin.ID, admin.ID)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
		err = svc.Delete(ctx, admin.ID, admin.ID)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})

	t.Run("customers with orders cannot be deleted", func(t *testing.T) {
		p := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Stock: 2})
		order, err := trade.NewOrder(bob.ID, "1 Main St", []trade.LineDraft{
			{ProductID: p.ID, ProductName: p.Name, Quantity: 1, UnitPrice: p.Price},
		})
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormOrderRepository(db.DB).Create(ctx, order))

		err = svc.Delete(ctx, admin.ID, bob.ID)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin.ID, alice.ID))
		err := svc.Delete(ctx, admin.ID, alice.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Activate(ctx, admin.ID, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
