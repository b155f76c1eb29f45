package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserAndProduct returns the user's line for a product, or nil
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Item, error) {
	var rows []models.CartItemModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].ToDomain(), nil
}

// FindByIDForUser finds one of the user's lines
func (r *GormCartRepository) FindByIDForUser(ctx context.Context, userID, itemID uuid.UUID) (*cart.Item, error) {
	var model models.CartItemModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&model).Error
	if err != nil {
		return nil, translateError(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the user's lines, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	var rows []models.CartItemModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	items := make([]cart.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Upsert inserts the line, or overwrites quantity on the existing
// (user_id, product_id) row in the same statement.
func (r *GormCartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	model := &models.CartItemModel{}
	model.FromDomain(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(model).Error
	return translateError(err, nil)
}

// DeleteForUser removes one of the user's lines
func (r *GormCartRepository) DeleteForUser(ctx context.Context, userID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrItemNotFound
	}
	return nil
}

// DeleteByUser empties the user's cart
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return 0, translateError(result.Error, nil)
	}
	return result.RowsAffected, nil
}

var _ cart.Repository = (*GormCartRepository)(nil)
