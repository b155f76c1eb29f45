// Package testutil provides helpers shared by the storefront tests:
// databases (sqlite in-memory and sqlmock), fixtures and gin helpers.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a postgres-dialect GORM database backed by sqlmock
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a sqlmock-backed database; it is closed when the test ends
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewSQLiteDB opens a private in-memory sqlite database with the full schema
func NewSQLiteDB(t testing.TB) *persistence.Database {
	t.Helper()
	db, err := persistence.NewInMemoryDatabase(context.Background(), nil)
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ProductSpec describes a product fixture
type ProductSpec struct {
	Name       string
	Price      string
	PromoPrice string
	Stock      int
	Inactive   bool
	CategoryID *uuid.UUID
}

// SeedProduct stores a product fixture
func SeedProduct(t require.TestingT, db *gorm.DB, spec ProductSpec) *catalog.Product {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if spec.Name == "" {
		spec.Name = "Product " + uuid.NewString()[:8]
	}
	if spec.Price == "" {
		spec.Price = "10.00"
	}
	details := catalog.ProductDetails{
		Name:       spec.Name,
		Price:      decimal.RequireFromString(spec.Price),
		CategoryID: spec.CategoryID,
	}
	if spec.PromoPrice != "" {
		promo := decimal.RequireFromString(spec.PromoPrice)
		details.PromoPrice = &promo
	}
	product, err := catalog.NewProduct(details, spec.Stock)
	require.NoError(t, err)
	if spec.Inactive {
		product.Deactivate()
	}
	require.NoError(t, persistence.NewGormProductRepository(db).Save(context.Background(), product))
	product.ClearDomainEvents()
	return product
}

// SeedUser stores a user fixture with password "secret123"
func SeedUser(t testing.TB, db *gorm.DB, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Test "+string(role), uuid.NewString()[:8]+"@example.com", "secret123", role)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

// SeedCategory stores an active category
func SeedCategory(t testing.TB, db *gorm.DB, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCategoryRepository(db).Save(context.Background(), category))
	return category
}

// StockOf reads a product's current stock
func StockOf(t testing.TB, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	level, err := persistence.NewGormStockLedger(db).Level(context.Background(), productID)
	require.NoError(t, err)
	return level
}

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}
