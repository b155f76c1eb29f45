package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRepository implements catalog.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a review. The (user_id, product_id) unique index turns a
// second review into shared.ErrAlreadyExists.
func (r *GormReviewRepository) Create(ctx context.Context, review *catalog.Review) error {
	model := &models.ReviewModel{}
	model.FromDomain(review)
	return translateError(r.db.WithContext(ctx).Create(model).Error, nil)
}

// Exists reports whether the user already reviewed the product
func (r *GormReviewRepository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReviewModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, nil)
	}
	return count > 0, nil
}

// FindByProduct lists the newest reviews of a product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]catalog.Review, error) {
	db := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var rows []models.ReviewModel
	if err := db.Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	reviews := make([]catalog.Review, len(rows))
	for i := range rows {
		reviews[i] = *rows[i].ToDomain()
	}
	return reviews, nil
}

// Summarize returns the review count and average rating of a product
func (r *GormReviewRepository) Summarize(ctx context.Context, productID uuid.UUID) (catalog.ReviewSummary, error) {
	var summary catalog.ReviewSummary
	err := r.db.WithContext(ctx).
		Model(&models.ReviewModel{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ?", productID).
		Row().
		Scan(&summary.Count, &summary.Average)
	if err != nil {
		return catalog.ReviewSummary{}, translateError(err, nil)
	}
	return summary, nil
}

var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
