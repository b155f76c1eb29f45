// Package apitest wires the full storefront API over an in-memory sqlite
// database for handler and router tests.
package apitest

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appidentity "github.com/storefront/backend/internal/application/identity"
	appinventory "github.com/storefront/backend/internal/application/inventory"
	appreport "github.com/storefront/backend/internal/application/report"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// LowStockThreshold is the threshold the test API runs with
const LowStockThreshold = 5

// API is a fully wired engine plus handles on its collaborators
type API struct {
	Engine    *gin.Engine
	DB        *gorm.DB
	Storage   *storage.StubObjectStorage
	JWT       *auth.JWTService
	Blacklist *auth.InMemoryTokenBlacklist
}

// Option tweaks the engine options before the engine is built
type Option func(*router.Options)

// WithAuthRateLimit throttles login and registration
func WithAuthRateLimit(limit int, window time.Duration) Option {
	return func(o *router.Options) {
		o.AuthRateLimiter = middleware.NewRateLimiter(limit, window)
	}
}

// WithMaxBodySize caps request bodies
func WithMaxBodySize(n int64) Option {
	return func(o *router.Options) {
		o.MaxBodySize = n
	}
}

// New builds the API on a fresh database
func New(t testing.TB, opts ...Option) *API {
	t.Helper()
	log := zaptest.NewLogger(t)
	database := testutil.NewSQLiteDB(t)
	db := database.DB

	scope := persistence.NewGormTransactionScope(db)
	products := persistence.NewGormProductRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	reviews := persistence.NewGormReviewRepository(db)
	users := persistence.NewGormUserRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	records := persistence.NewGormReportRepository(db)
	objects := storage.NewStubObjectStorage()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "apitest-secret-that-is-long-enough-for-hs256",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	productService := appcatalog.NewProductService(products, categories, reviews, log)
	productService.SetObjectStorage(objects)

	orderService := apptrade.NewOrderService(scope, orders, products, log)
	keys := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = keys.Close() })
	orderService.SetIdempotencyStore(keys, time.Hour)
	orderService.SetObjectStorage(objects)

	categoryService := appcatalog.NewCategoryService(categories)
	ledger := appinventory.NewLedgerService(scope, products, LowStockThreshold, log)

	handlers := router.Handlers{
		Health: handler.NewHealthHandler(database, "test"),
		Auth:   handler.NewAuthHandler(appidentity.NewAuthService(users, jwtService, blacklist, log)),
		Catalog: handler.NewCatalogHandler(
			productService,
			categoryService,
			appcatalog.NewReviewService(reviews, products, log),
		),
		Cart:  handler.NewCartHandler(appcart.NewCartService(scope, persistence.NewGormCartRepository(db), products, log)),
		Order: handler.NewOrderHandler(orderService),
		AdminCatalog: handler.NewAdminCatalogHandler(
			productService,
			categoryService,
			appcatalog.NewImageService(products, objects, 15*time.Minute, log),
			ledger,
		),
		AdminOrder: handler.NewAdminOrderHandler(orderService),
		AdminUser:  handler.NewAdminUserHandler(appidentity.NewUserService(users, log)),
		Report: handler.NewReportHandler(
			appreport.NewDashboardService(products, orders, users, records, LowStockThreshold, log),
			appreport.NewSnapshotService(records),
		),
	}

	options := router.Options{
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		CORS:           middleware.DefaultCORSConfig(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &API{
		Engine:    router.NewEngine(options, handlers),
		DB:        db,
		Storage:   objects,
		JWT:       jwtService,
		Blacklist: blacklist,
	}
}

// Login seeds a user with role and returns the user and a bearer token
func (a *API) Login(t testing.TB, role identity.Role) (*identity.User, string) {
	t.Helper()
	user := testutil.SeedUser(t, a.DB, role)
	token, err := a.JWT.Generate(user)
	require.NoError(t, err)
	return user, token.AccessToken
}
