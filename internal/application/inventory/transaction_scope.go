package inventory

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work inside one database transaction.
// All repositories handed to fn share that transaction; if fn returns an
// error everything it did is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories taking part in a transaction.
//
// Ledger is the only way stock changes. Products is for reads and
// catalog maintenance; Save never writes the stock column after creation.
type TransactionalRepositories interface {
	Ledger() inventory.Ledger
	Products() catalog.ProductRepository
	Carts() cart.Repository
	Orders() trade.OrderRepository
}
