package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinv "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendAlert(ctx context.Context, alert appinv.StockAlert) error {
	return m.Called(ctx, alert).Error(0)
}

func placedEvent(t *testing.T, products ...*catalog.Product) *trade.OrderPlacedEvent {
	t.Helper()
	drafts := make([]trade.LineDraft, len(products))
	for i, p := range products {
		drafts[i] = trade.LineDraft{ProductID: p.ID, ProductName: p.Name, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}
	}
	order, err := trade.NewOrder(uuid.New(), "1 Main Street", drafts)
	require.NoError(t, err)
	return trade.NewOrderPlacedEvent(order)
}

func TestLowStockHandler(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormProductRepository(db.DB)
	low := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Low", Price: "1.00", Stock: 2})
	gone := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Gone", Price: "1.00", Stock: 0})
	fine := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Fine", Price: "1.00", Stock: 30})

	notifier := new(mockNotifier)
	notifier.On("SendAlert", mock.Anything, mock.MatchedBy(func(a appinv.StockAlert) bool {
		return a.ProductID == low.ID && a.AlertType == appinv.AlertLowStock && a.Stock == 2
	})).Return(nil).Once()
	notifier.On("SendAlert", mock.Anything, mock.MatchedBy(func(a appinv.StockAlert) bool {
		return a.ProductID == gone.ID && a.AlertType == appinv.AlertSoldOut
	})).Return(errors.New("mail server down")).Once()

	handler := appinv.NewLowStockHandler(repo, 10, zaptest.NewLogger(t)).WithNotifier(notifier)
	assert.Equal(t, []string{trade.EventTypeOrderPlaced}, handler.EventTypes())

	require.NoError(t, handler.Handle(context.Background(), placedEvent(t, low, gone, fine)))
	notifier.AssertExpectations(t)
}

func TestLowStockHandler_RejectsOtherEvents(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	handler := appinv.NewLowStockHandler(persistence.NewGormProductRepository(db.DB), 10, zaptest.NewLogger(t))

	p := testutil.SeedProduct(t, db.DB, testutil.ProductSpec{Name: "Lamp", Price: "1.00", Stock: 1})
	err := handler.Handle(context.Background(), catalog.NewProductCreatedEvent(p))
	assert.Error(t, err)
}
