package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Review limits
const (
	MinRating              = 1
	MaxRating              = 5
	MaxReviewCommentLength = 500
)

// Review is a customer's rating of a product. A customer reviews a product at most once.
type Review struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
}

// NewReview validates and creates a review for an active product
func NewReview(userID uuid.UUID, product *Product, rating int, comment string) (*Review, error) {
	if product == nil {
		return nil, shared.ErrProductNotFound
	}
	if !product.Active {
		return nil, shared.ErrProductInactive
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewValidationError("Rating must be between %d and %d", MinRating, MaxRating)
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxReviewCommentLength {
		return nil, shared.NewValidationError("Comment cannot exceed %d characters", MaxReviewCommentLength)
	}
	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  product.ID,
		Rating:     rating,
		Comment:    comment,
	}, nil
}

// ReviewSummary aggregates ratings for a product
type ReviewSummary struct {
	Count   int64
	Average float64
}
