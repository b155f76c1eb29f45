package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with joined read queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// ProductRecords lists every product with its category name
func (r *GormReportRepository) ProductRecords(ctx context.Context) ([]report.ProductRecord, error) {
	var records []report.ProductRecord
	err := r.db.WithContext(ctx).
		Table("products").
		Select(`products.id, products.name, COALESCE(categories.name, '') AS category_name,
			products.price, products.promo_price, products.stock, products.active,
			products.featured, products.created_at`).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.name").
		Scan(&records).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return records, nil
}

// OrderRecords lists orders newest first with customer and item counts
func (r *GormReportRepository) OrderRecords(ctx context.Context, limit int) ([]report.OrderRecord, error) {
	db := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, COALESCE(users.name, '') AS customer_name,
			COALESCE(users.email, '') AS customer_email, orders.total, orders.status,
			orders.address, orders.created_at,
			(SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS item_count`).
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var records []report.OrderRecord
	if err := db.Scan(&records).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return records, nil
}

// CustomerRecords lists customers with their order counts
func (r *GormReportRepository) CustomerRecords(ctx context.Context) ([]report.CustomerRecord, error) {
	var records []report.CustomerRecord
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id, users.name, users.email, users.phone, users.active, users.created_at,
			(SELECT COUNT(*) FROM orders WHERE orders.user_id = users.id) AS order_count`).
		Where("users.role = ?", identity.RoleCustomer).
		Order("users.name").
		Scan(&records).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return records, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
