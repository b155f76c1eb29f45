package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order header and its line items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(order)
	db := r.db.WithContext(ctx)
	if err := db.Create(model).Error; err != nil {
		return translateError(err, nil)
	}
	if len(order.Items) == 0 {
		return nil
	}
	items := make([]models.OrderItemModel, len(order.Items))
	for i, line := range order.Items {
		items[i].FromDomain(line)
	}
	return translateError(db.Create(&items).Error, nil)
}

// FindByID loads an order with its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads an order and locks its row until the transaction ends
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrOrderNotFound)
	}
	order := model.ToDomain()
	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// findItems loads line items with the current product names
func (r *GormOrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]trade.LineItem, error) {
	var rows []models.OrderItemRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, COALESCE(products.name, '') AS product_name").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("product_name").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	items := make([]trade.LineItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// List returns a page of order headers and the total count
func (r *GormOrderRepository) List(ctx context.Context, query trade.OrderQuery) ([]trade.Order, int64, error) {
	query.Filter = query.Filter.Normalize()
	db := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if query.UserID != nil {
		db = db.Where("user_id = ?", *query.UserID)
	}
	if query.Status != nil {
		db = db.Where("status = ?", *query.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	sortField := ValidateSortField(query.OrderBy, OrderSortFields, "created_at")
	var rows []models.OrderModel
	err := db.Order(sortField + " " + ValidateSortOrder(query.OrderDir)).
		Order("id").
		Offset(query.Offset()).
		Limit(query.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, nil)
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// FindIDsByStatus lists the IDs of all orders in a status, oldest first
func (r *GormOrderRepository) FindIDsByStatus(ctx context.Context, status trade.OrderStatus) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("status = ?", status).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return ids, nil
}

// UpdateStatus persists the order's status
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":     order.Status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrOrderNotFound
	}
	return nil
}

// Delete removes line items and then the order. The order delete is
// guarded by its affected-row count so a concurrent delete of the same
// order is reported instead of silently succeeding twice.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
		return translateError(err, nil)
	}
	result := db.Where("id = ?", id).Delete(&models.OrderModel{})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrOrderNotFound
	}
	return nil
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error
	return count, translateError(err, nil)
}

// SumTotalByStatus adds up order totals in a status
func (r *GormOrderRepository) SumTotalByStatus(ctx context.Context, status trade.OrderStatus) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("SUM(total)").
		Where("status = ?", status).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, translateError(err, nil)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
