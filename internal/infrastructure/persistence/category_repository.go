package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.ErrNotFound.WithMessage("Category not found"))
	}
	return model.ToDomain(), nil
}

// FindAll lists categories by name
func (r *GormCategoryRepository) FindAll(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	db := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	var rows []models.CategoryModel
	if err := db.Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	model := &models.CategoryModel{}
	model.FromDomain(category)
	return translateError(r.db.WithContext(ctx).Save(model).Error, nil)
}

// ExistsByName checks for a case-insensitive name clash, optionally ignoring one category
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, translateError(err, nil)
	}
	return count > 0, nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
