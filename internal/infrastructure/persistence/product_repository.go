package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productUpdateColumns are written on update. Stock is deliberately absent:
// after creation it only changes through the stock ledger.
var productUpdateColumns = []string{
	"name", "description", "price", "promo_price", "active",
	"featured", "category_id", "image_ref", "updated_at",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product and locks its row until the transaction ends
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, shared.ErrProductNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products found among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	result := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	for i := range rows {
		p := rows[i].ToDomain()
		result[p.ID] = p
	}
	return result, nil
}

// List returns a page of products matching the query and the total count
func (r *GormProductRepository) List(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, int64, error) {
	query.Filter = query.Filter.Normalize()
	db := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if query.ActiveOnly {
		db = db.Where("active = ?", true)
	}
	if query.FeaturedOnly {
		db = db.Where("featured = ?", true)
	}
	if query.CategoryID != nil {
		db = db.Where("category_id = ?", *query.CategoryID)
	}
	if pattern := likePattern(query.Search); pattern != "" {
		db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	sortField := ValidateSortField(query.OrderBy, ProductSortFields, "created_at")
	sortOrder := ValidateSortOrder(query.OrderDir)

	var rows []models.ProductModel
	err := db.Order(sortField + " " + sortOrder).
		Order("id").
		Offset(query.Offset()).
		Limit(query.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, nil)
	}
	return toProducts(rows), total, nil
}

// FindRelated returns other active products of the same category, newest first
func (r *GormProductRepository) FindRelated(ctx context.Context, product *catalog.Product, limit int) ([]catalog.Product, error) {
	if product.CategoryID == nil || limit <= 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND active = ?", *product.CategoryID, product.ID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return toProducts(rows), nil
}

// FindLowStock returns active products with stock below threshold, lowest first
func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Product, error) {
	db := r.db.WithContext(ctx).
		Where("active = ? AND stock < ?", true, threshold).
		Order("stock ASC").
		Order("name ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var rows []models.ProductModel
	if err := db.Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return toProducts(rows), nil
}

// FindInactiveUnreferenced returns inactive products no order line refers to
func (r *GormProductRepository) FindInactiveUnreferenced(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("active = ?", false).
		Where("NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.product_id = products.id)").
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return toProducts(rows), nil
}

// Save creates the product or updates its editable columns
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	model.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(model).
		Select(productUpdateColumns).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, nil)
	}
	return nil
}

// HasOrderLines reports whether any order line item references the product
func (r *GormProductRepository) HasOrderLines(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Where("product_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, nil)
	}
	return count > 0, nil
}

// Delete hard-deletes the product together with its cart items and reviews
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id, false)
}

// DeleteInactive is Delete for a product that must still be inactive. The
// row is locked first so a concurrent reactivation wins.
func (r *GormProductRepository) DeleteInactive(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id, true)
}

func (r *GormProductRepository) delete(ctx context.Context, id uuid.UUID, inactiveOnly bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := NewGormProductRepository(tx)
		if inactiveOnly {
			product, err := products.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if product.Active {
				return shared.NewValidationError("Product %s was reactivated", product.Name)
			}
		}
		inUse, err := products.HasOrderLines(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return shared.ErrProductInUse
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
			return translateError(err, nil)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ReviewModel{}).Error; err != nil {
			return translateError(err, nil)
		}
		query := tx.Where("id = ?", id)
		if inactiveOnly {
			query = query.Where("active = ?", false)
		}
		result := query.Delete(&models.ProductModel{})
		if result.Error != nil {
			return translateError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return shared.ErrProductNotFound
		}
		return nil
	})
}

// CountActive counts active products
func (r *GormProductRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, translateError(err, nil)
}

func toProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
