package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appidentity "github.com/storefront/backend/internal/application/identity"
	appinventory "github.com/storefront/backend/internal/application/inventory"
	appreport "github.com/storefront/backend/internal/application/report"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/storefront/backend/tests/testutil/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, api *apitest.API, token string, productID uuid.UUID, qty int) apptrade.OrderResponse {
	t.Helper()
	addToCart(t, api, token, productID, qty)
	return testutil.DataAs[apptrade.OrderResponse](t, checkout(t, api, token, ""), http.StatusCreated)
}

func setStatus(t *testing.T, api *apitest.API, token string, orderID uuid.UUID, status string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPut,
		Path:   "/api/v1/admin/orders/" + orderID.String() + "/status",
		Token:  token,
		Body:   map[string]string{"status": status},
	})
}

func TestAdmin_RequiresAdminRole(t *testing.T) {
	api := apitest.New(t)
	_, customer := api.Login(t, identity.RoleCustomer)

	paths := []string{
		"/api/v1/admin/products",
		"/api/v1/admin/orders",
		"/api/v1/admin/users",
		"/api/v1/admin/reports/dashboard",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := testutil.Do(t, api.Engine, testutil.Request{Path: path, Token: customer})
			assert.Equal(t, http.StatusForbidden, w.Code)

			w = testutil.Do(t, api.Engine, testutil.Request{Path: path})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminCatalog_ProductLifecycle(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	category := testutil.SeedCategory(t, api.DB, "Garden")

	w := testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/admin/products",
		Token:  admin,
		Body: map[string]any{
			"name":        "Rake",
			"price":       "19.90",
			"stock":       7,
			"category_id": category.ID,
		},
	})
	created := testutil.DataAs[appcatalog.ProductResponse](t, w, http.StatusCreated)
	assert.True(t, created.Active)
	assert.Equal(t, 7, created.Stock)
	assert.True(t, created.EffectivePrice.Equal(decimal.RequireFromString("19.90")))
	productPath := "/api/v1/admin/products/" + created.ID.String()

	t.Run("invalid create", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   "/api/v1/admin/products",
			Token:  admin,
			Body:   map[string]any{"price": "1.00", "stock": -1},
		})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	w = testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPut,
		Path:   productPath,
		Token:  admin,
		Body:   map[string]any{"name": "Leaf rake", "price": "21.00", "promo_price": "18.00"},
	})
	updated := testutil.DataAs[appcatalog.ProductResponse](t, w, http.StatusOK)
	assert.Equal(t, "Leaf rake", updated.Name)
	assert.True(t, updated.EffectivePrice.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 7, updated.Stock, "update leaves stock alone")

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: productPath + "/deactivate", Token: admin})
	assert.False(t, testutil.DataAs[appcatalog.ProductResponse](t, w, http.StatusOK).Active)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/catalog/products/" + created.ID.String()})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeProductNotFound)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/products", Token: admin})
	assert.Len(t, testutil.DataAs[[]appcatalog.ProductResponse](t, w, http.StatusOK), 1, "admin list includes inactive products")

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: productPath + "/activate", Token: admin})
	assert.True(t, testutil.DataAs[appcatalog.ProductResponse](t, w, http.StatusOK).Active)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: productPath, Token: admin})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: productPath, Token: admin})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeProductNotFound)
}

func TestAdminCatalog_DeleteProductInUse(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	_, customer := api.Login(t, identity.RoleCustomer)
	product := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Stock: 3})
	placeOrder(t, api, customer, product.ID, 1)

	w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: "/api/v1/admin/products/" + product.ID.String(), Token: admin})
	testutil.AssertError(t, w, http.StatusUnprocessableEntity, shared.CodeProductInUse)
	assert.Equal(t, 2, testutil.StockOf(t, api.DB, product.ID))
}

func TestAdminCatalog_StockAndLowStock(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	low := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Low", Stock: 2})
	testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Full", Stock: 50})
	testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Gone", Stock: 0, Inactive: true})
	stockPath := "/api/v1/admin/products/" + low.ID.String() + "/stock"

	w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/inventory/low-stock", Token: admin})
	items := testutil.DataAs[[]appinventory.LowStockItem](t, w, http.StatusOK)
	require.Len(t, items, 1, "inactive products are not reported")
	assert.Equal(t, low.ID, items[0].ProductID)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPut, Path: stockPath, Token: admin, Body: map[string]int{"stock": 0}})
	level := testutil.DataAs[appinventory.StockLevelResponse](t, w, http.StatusOK)
	assert.Equal(t, 0, level.Stock)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/inventory/low-stock", Token: admin})
	items = testutil.DataAs[[]appinventory.LowStockItem](t, w, http.StatusOK)
	require.Len(t, items, 1)
	assert.True(t, items[0].SoldOut)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/inventory/low-stock?threshold=100", Token: admin})
	assert.Len(t, testutil.DataAs[[]appinventory.LowStockItem](t, w, http.StatusOK), 2)

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"negative stock", stockPath, map[string]int{"stock": -1}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"missing stock", stockPath, map[string]any{}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"unknown product", "/api/v1/admin/products/" + uuid.NewString() + "/stock", map[string]int{"stock": 4}, http.StatusNotFound, shared.CodeProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPut, Path: tt.path, Token: admin, Body: tt.body})
			testutil.AssertError(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestAdminCatalog_ProductImage(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	product := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Stock: 1})
	imagePath := "/api/v1/admin/products/" + product.ID.String() + "/image"

	w := testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   imagePath + "/upload-url",
		Token:  admin,
		Body:   map[string]string{"filename": "front.PNG"},
	})
	upload := testutil.DataAs[appcatalog.ImageUploadResponse](t, w, http.StatusOK)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.NotEmpty(t, upload.UploadURL)

	t.Run("unsupported file type", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{
			Method: http.MethodPost,
			Path:   imagePath + "/upload-url",
			Token:  admin,
			Body:   map[string]string{"filename": "notes.txt"},
		})
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})

	t.Run("attach before upload", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPut, Path: imagePath, Token: admin, Body: map[string]string{"key": upload.Key}})
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})

	t.Run("foreign key", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPut, Path: imagePath, Token: admin, Body: map[string]string{"key": "products/" + uuid.NewString() + "/x.png"}})
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})

	api.Storage.Put(upload.Key, upload.ContentType)
	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPut, Path: imagePath, Token: admin, Body: map[string]string{"key": upload.Key}})
	attached := testutil.DataAs[appcatalog.ProductResponse](t, w, http.StatusOK)
	assert.Equal(t, upload.Key, attached.ImageKey)
	assert.NotEmpty(t, attached.ImageURL)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: imagePath, Token: admin})
	cleared := testutil.DataAs[appcatalog.ProductResponse](t, w, http.StatusOK)
	assert.Empty(t, cleared.ImageKey)
	assert.Equal(t, 0, api.Storage.Len(), "cleared image is deleted from storage")
}

func TestAdminCatalog_Categories(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)

	w := testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/admin/categories",
		Token:  admin,
		Body:   map[string]string{"name": "Toys", "description": "For kids"},
	})
	category := testutil.DataAs[appcatalog.CategoryResponse](t, w, http.StatusCreated)
	categoryPath := "/api/v1/admin/categories/" + category.ID.String()

	w = testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/admin/categories",
		Token:  admin,
		Body:   map[string]string{"name": "Toys"},
	})
	testutil.AssertError(t, w, http.StatusConflict, shared.CodeAlreadyExists)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPut, Path: categoryPath, Token: admin, Body: map[string]string{"name": "Games"}})
	assert.Equal(t, "Games", testutil.DataAs[appcatalog.CategoryResponse](t, w, http.StatusOK).Name)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: categoryPath + "/deactivate", Token: admin})
	assert.False(t, testutil.DataAs[appcatalog.CategoryResponse](t, w, http.StatusOK).Active)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/catalog/categories"})
	assert.Empty(t, testutil.DataAs[[]appcatalog.CategoryResponse](t, w, http.StatusOK))

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/categories", Token: admin})
	assert.Len(t, testutil.DataAs[[]appcatalog.CategoryResponse](t, w, http.StatusOK), 1)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: categoryPath + "/activate", Token: admin})
	assert.True(t, testutil.DataAs[appcatalog.CategoryResponse](t, w, http.StatusOK).Active)
}

func TestAdminOrder_StatusTransitions(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	_, customer := api.Login(t, identity.RoleCustomer)
	product := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Stock: 5})
	order := placeOrder(t, api, customer, product.ID, 1)

	res := setStatus(t, api, admin, order.ID, "shipped")
	testutil.AssertError(t, res, http.StatusUnprocessableEntity, shared.CodeInvalidStatusTransition)

	res = setStatus(t, api, admin, order.ID, "teleported")
	testutil.AssertError(t, res, http.StatusBadRequest, shared.CodeValidation)

	for _, status := range []string{"confirmed", "shipped", "delivered"} {
		res := setStatus(t, api, admin, order.ID, status)
		got := testutil.DataAs[apptrade.OrderResponse](t, res, http.StatusOK)
		assert.Equal(t, status, got.Status)
	}

	res = setStatus(t, api, admin, order.ID, "cancelled")
	testutil.AssertError(t, res, http.StatusUnprocessableEntity, shared.CodeInvalidStatusTransition)

	w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/orders/" + order.ID.String(), Token: admin})
	got := testutil.DataAs[apptrade.OrderResponse](t, w, http.StatusOK)
	assert.Empty(t, got.NextStatuses)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/orders?status=delivered", Token: admin})
	assert.Len(t, testutil.DataAs[[]apptrade.OrderListItemResponse](t, w, http.StatusOK), 1)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/reports/dashboard", Token: admin})
	stats := testutil.DataAs[appreport.DashboardStats](t, w, http.StatusOK)
	assert.True(t, stats.Revenue.Equal(order.Total), "delivered orders count as revenue")
}

func TestAdminOrder_DeleteRestoresStock(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	_, customer := api.Login(t, identity.RoleCustomer)
	product := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Stock: 5})
	order := placeOrder(t, api, customer, product.ID, 3)
	require.Equal(t, 2, testutil.StockOf(t, api.DB, product.ID))
	orderPath := "/api/v1/admin/orders/" + order.ID.String()

	w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: orderPath, Token: admin})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 5, testutil.StockOf(t, api.DB, product.ID))

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: orderPath, Token: admin})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeOrderNotFound)
	assert.Equal(t, 5, testutil.StockOf(t, api.DB, product.ID), "second delete restores nothing")
}

func TestAdminOrder_Purge(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	_, customer := api.Login(t, identity.RoleCustomer)
	sold := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Stock: 10})
	keep := placeOrder(t, api, customer, sold.ID, 1)
	drop := placeOrder(t, api, customer, sold.ID, 2)
	res := setStatus(t, api, admin, drop.ID, "cancelled")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, 7, testutil.StockOf(t, api.DB, sold.ID))

	w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/orders/purge-cancelled", Token: admin})
	result := testutil.DataAs[apptrade.PurgeResult](t, w, http.StatusOK)
	assert.Equal(t, apptrade.PurgeResult{Deleted: 1}, result)
	assert.Equal(t, 9, testutil.StockOf(t, api.DB, sold.ID))

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/orders/" + keep.ID.String(), Token: admin})
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("inactive products", func(t *testing.T) {
		unused := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Inactive: true})
		w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/products/" + sold.ID.String() + "/deactivate", Token: admin})
		require.Equal(t, http.StatusOK, w.Code)

		w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/products/purge-inactive", Token: admin})
		result := testutil.DataAs[apptrade.PurgeResult](t, w, http.StatusOK)
		assert.Equal(t, 1, result.Deleted, "referenced products are kept")

		w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/products/" + unused.ID.String(), Token: admin})
		testutil.AssertError(t, w, http.StatusNotFound, shared.CodeProductNotFound)
		w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/products/" + sold.ID.String(), Token: admin})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminUser_Management(t *testing.T) {
	api := apitest.New(t)
	adminUser, admin := api.Login(t, identity.RoleAdmin)
	customer, _ := api.Login(t, identity.RoleCustomer)
	api.Login(t, identity.RoleCustomer)
	customerPath := "/api/v1/admin/users/" + customer.ID.String()

	w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/users", Token: admin})
	users := testutil.DataAs[[]appidentity.UserResponse](t, w, http.StatusOK)
	assert.Len(t, users, 2, "only customers are listed")

	t.Run("cannot deactivate self", func(t *testing.T) {
		w := testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/users/" + adminUser.ID.String() + "/deactivate", Token: admin})
		testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	})

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: customerPath + "/deactivate", Token: admin})
	assert.False(t, testutil.DataAs[appidentity.UserResponse](t, w, http.StatusOK).Active)

	w = testutil.Do(t, api.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   map[string]string{"email": customer.Email, "password": "secret123"},
	})
	testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodPost, Path: customerPath + "/activate", Token: admin})
	assert.True(t, testutil.DataAs[appidentity.UserResponse](t, w, http.StatusOK).Active)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: customerPath, Token: admin})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(t, api.Engine, testutil.Request{Method: http.MethodDelete, Path: customerPath, Token: admin})
	testutil.AssertError(t, w, http.StatusNotFound, shared.CodeNotFound)
}

func TestReportHandler(t *testing.T) {
	api := apitest.New(t)
	_, admin := api.Login(t, identity.RoleAdmin)
	_, customer := api.Login(t, identity.RoleCustomer)
	product := testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Clock", Stock: 4})
	testutil.SeedProduct(t, api.DB, testutil.ProductSpec{Name: "Retired", Inactive: true})
	order := placeOrder(t, api, customer, product.ID, 2)

	w := testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/reports/dashboard", Token: admin})
	stats := testutil.DataAs[appreport.DashboardStats](t, w, http.StatusOK)
	assert.Equal(t, int64(1), stats.ActiveProducts)
	assert.Equal(t, int64(1), stats.Orders)
	assert.Equal(t, int64(1), stats.Customers)
	assert.True(t, stats.Revenue.IsZero(), "pending orders are not revenue")
	assert.Equal(t, apitest.LowStockThreshold, stats.LowStockThreshold)
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, "Clock", stats.LowStock[0].Name)
	require.Len(t, stats.RecentOrders, 1)
	assert.Equal(t, order.ID, stats.RecentOrders[0].ID)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/reports/products", Token: admin})
	assert.Len(t, testutil.DataAs[[]report.ProductRecord](t, w, http.StatusOK), 2)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/reports/orders", Token: admin})
	orders := testutil.DataAs[[]report.OrderRecord](t, w, http.StatusOK)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1), orders[0].ItemCount)

	w = testutil.Do(t, api.Engine, testutil.Request{Path: "/api/v1/admin/reports/customers", Token: admin})
	customers := testutil.DataAs[[]report.CustomerRecord](t, w, http.StatusOK)
	require.Len(t, customers, 1)
	assert.Equal(t, int64(1), customers[0].OrderCount)
}
