package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, price string, promo string, stock int) *catalog.Product {
	t.Helper()
	d := catalog.ProductDetails{Name: "Item " + price, Price: decimal.RequireFromString(price)}
	if promo != "" {
		p := decimal.RequireFromString(promo)
		d.PromoPrice = &p
	}
	p, err := catalog.NewProduct(d, stock)
	require.NoError(t, err)
	return p
}

func TestNewItem(t *testing.T) {
	userID := uuid.New()
	product := newProduct(t, "10", "", 5)

	t.Run("creates line within stock", func(t *testing.T) {
		item, err := NewItem(userID, product, 5)
		require.NoError(t, err)
		assert.Equal(t, userID, item.UserID)
		assert.Equal(t, product.ID, item.ProductID)
		assert.Equal(t, 5, item.Quantity)
		assert.True(t, item.BelongsTo(userID))
		assert.False(t, item.BelongsTo(uuid.New()))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewItem(userID, product, 0)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		_, err := NewItem(userID, product, 6)
		assert.True(t, errors.Is(err, shared.ErrStockExceeded))
	})

	t.Run("large quantity bounded only by stock", func(t *testing.T) {
		warehouse := newProduct(t, "2", "", 5000)
		item, err := NewItem(userID, warehouse, 1000)
		require.NoError(t, err)
		require.NoError(t, item.SetQuantity(warehouse, 5000))
		assert.Equal(t, 5000, item.Quantity)
	})

	t.Run("rejects inactive product", func(t *testing.T) {
		inactive := newProduct(t, "10", "", 5)
		inactive.Deactivate()
		_, err := NewItem(userID, inactive, 1)
		assert.True(t, errors.Is(err, shared.ErrProductInactive))
	})
}

func TestItem_Merge(t *testing.T) {
	product := newProduct(t, "10", "", 5)
	item, err := NewItem(uuid.New(), product, 3)
	require.NoError(t, err)

	require.NoError(t, item.Merge(product, 2))
	assert.Equal(t, 5, item.Quantity)

	err = item.Merge(product, 1)
	assert.True(t, errors.Is(err, shared.ErrStockExceeded))
	assert.Equal(t, 5, item.Quantity, "failed merge leaves quantity unchanged")
}

func TestItem_SetQuantity(t *testing.T) {
	product := newProduct(t, "10", "", 5)
	item, err := NewItem(uuid.New(), product, 3)
	require.NoError(t, err)

	err = item.SetQuantity(product, 6)
	assert.True(t, errors.Is(err, shared.ErrStockExceeded))
	assert.Equal(t, 3, item.Quantity)

	err = item.SetQuantity(product, 0)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	require.NoError(t, item.SetQuantity(product, 1))
	assert.Equal(t, 1, item.Quantity)
}

func TestNewSnapshot(t *testing.T) {
	userID := uuid.New()
	a := newProduct(t, "10", "", 5)
	b := newProduct(t, "20", "15", 5)
	gone := newProduct(t, "7", "", 5)
	gone.Deactivate()

	items := []Item{
		{ID: uuid.New(), UserID: userID, ProductID: a.ID, Quantity: 2},
		{ID: uuid.New(), UserID: userID, ProductID: b.ID, Quantity: 1},
		{ID: uuid.New(), UserID: userID, ProductID: gone.ID, Quantity: 4},
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Quantity: 1},
	}
	products := map[uuid.UUID]*catalog.Product{a.ID: a, b.ID: b, gone.ID: gone}

	s := NewSnapshot(userID, items, products)

	require.Len(t, s.Lines, 2)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(35)), "2*10 + 1*15, got %s", s.Total)
	assert.Equal(t, 3, s.ItemCount)
	assert.True(t, s.Lines[1].UnitPrice.Equal(decimal.NewFromInt(15)))
	assert.False(t, s.IsEmpty())
	assert.NoError(t, s.CheckStock())

	require.Len(t, s.Unavailable, 2)
	assert.Equal(t, gone.ID, s.Unavailable[0].Item.ProductID)
	assert.Nil(t, s.Unavailable[1].Product)
	err := s.CheckAvailable()
	assert.True(t, errors.Is(err, shared.ErrProductInactive))
	assert.Contains(t, err.Error(), gone.Name)

	missingOnly := NewSnapshot(userID, items[3:], products)
	assert.True(t, errors.Is(missingOnly.CheckAvailable(), shared.ErrProductNotFound))

	a.Stock = 1
	s = NewSnapshot(userID, items, products)
	err = s.CheckStock()
	assert.True(t, errors.Is(err, shared.ErrStockExceeded))
	assert.Contains(t, err.Error(), a.Name)
}

func TestNewSnapshot_Empty(t *testing.T) {
	s := NewSnapshot(uuid.New(), nil, nil)
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Total.IsZero())
	assert.NoError(t, s.CheckAvailable())
}
