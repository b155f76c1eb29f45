package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService records customer reviews
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo catalog.ReviewRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo, logger: logger}
}

// Create adds the user's review of an active product. A second review of
// the same product reports ALREADY_EXISTS.
func (s *ReviewService) Create(ctx context.Context, userID, productID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	review, err := catalog.NewReview(userID, product, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	exists, err := s.reviewRepo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("You have already reviewed this product")
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Info("Review created",
		zap.String("product_id", productID.String()),
		zap.Int("rating", review.Rating),
	)
	resp := ToReviewResponses([]catalog.Review{*review})[0]
	return &resp, nil
}

// ListForProduct returns a product's most recent reviews
func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, limit int) ([]ReviewResponse, error) {
	if limit <= 0 || limit > shared.MaxPageSize {
		limit = ProductPageReviewsLimit
	}
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	return ToReviewResponses(reviews), nil
}
