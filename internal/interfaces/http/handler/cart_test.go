package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/storefront/backend/tests/testutil/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addToCart(t *testing.T, api *apitest.API, token string, productID uuid.UUID, qty int) appcart.ItemResponse {
	t.Helper()
	w := testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/cart/items",
		Token:  token,
		Body:   map[string]any{"product_id": productID, "quantity": qty},
	})
	return testutil.DataAs[appcart.ItemResponse](t, w, http.StatusCreated)
}

func TestCartHandler_Lifecycle(t *testing.T) {
	api := apitest.New(t)
	_, token := api.Login(t, identity.RoleCustomer)
	tea := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Tea", Price: "4.00", Stock: 5})
	cup := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Cup", Price: "6.00", PromoPrice: "5.00", Stock: 2})

	first := addToCart(t, api, token, tea.ID, 2)
	merged := addToCart(t, api, token, tea.ID, 1)
	assert.Equal(t, first.ID, merged.ID, "same product merges into one line")
	assert.Equal(t, 3, merged.Quantity)
	cupLine := addToCart(t, api, token, cup.ID, 2)

	w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/cart", Token: token})
	snapshot := testutil.DataAs[appcart.CartResponse](t, w, http.StatusOK)
	assert.Len(t, snapshot.Lines, 2)
	assert.Equal(t, 5, snapshot.ItemCount)
	assert.True(t, snapshot.Total.Equal(decimal.NewFromInt(22)), "3*4 + 2*5 promo, got %s", snapshot.Total)

	t.Run("merge beyond stock", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   "/api/v1/cart/items",
			Token:  token,
			Body:   map[string]any{"product_id": tea.ID, "quantity": 3},
		})
		testutil.AssertError(t, w, http.StatusUnprocessableEntity, shared.CodeStockExceeded)
	})

	t.Run("set quantity", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPut,
			Path:   "/api/v1/cart/items/" + first.ID.String(),
			Token:  token,
			Body:   map[string]int{"quantity": 1},
		})
		item := testutil.DataAs[appcart.ItemResponse](t, w, http.StatusOK)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPut,
			Path:   "/api/v1/cart/items/" + first.ID.String(),
			Token:  token,
			Body:   map[string]int{"quantity": 0},
		})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("another user's line is not found", func(t *testing.T) {
		_, other := api.Login(t, identity.RoleCustomer)
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodDelete,
			Path:   "/api/v1/cart/items/" + cupLine.ID.String(),
			Token:  other,
		})
		testutil.AssertError(t, w, http.StatusNotFound, shared.CodeItemNotFound)
	})

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: "/api/v1/cart/items/" + cupLine.ID.String(), Token: token})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: "/api/v1/cart/items/" + cupLine.ID.String(), Token: token})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeItemNotFound)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: "/api/v1/cart", Token: token})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/cart", Token: token})
	snapshot = testutil.DataAs[appcart.CartResponse](t, w, http.StatusOK)
	assert.Empty(t, snapshot.Lines)
	assert.True(t, snapshot.Total.IsZero())

	assert.Equal(t, 5, testutil.StockOf(t, api.DB, tea.ID), "cart operations never touch stock")
}

func TestCartHandler_AddItemErrors(t *testing.T) {
	api := apitest.New(t)
	_, token := api.Login(t, identity.RoleCustomer)
	inactive := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Stock: 5, Inactive: true})

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"unknown product", map[string]any{"product_id": uuid.New(), "quantity": 1}, http.StatusNotFound, shared.CodeProductNotFound},
		{"inactive product", map[string]any{"product_id": inactive.ID, "quantity": 1}, http.StatusUnprocessableEntity, shared.CodeProductInactive},
		{"missing quantity", map[string]any{"product_id": inactive.ID}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed json", `{"product_id":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/cart/items", Token: token, Body: tt.body})
			testutil.AssertError(t, w, tt.wantStatus, tt.wantCode)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/cart"})
		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)
	})
	require.Equal(t, 5, testutil.StockOf(t, api.DB, inactive.ID))
}
