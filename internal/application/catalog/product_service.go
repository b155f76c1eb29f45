// Package catalog serves the product catalog: products, categories,
// reviews and product images
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// RelatedProductsLimit caps related products on a product page
	RelatedProductsLimit = 4
	// ProductPageReviewsLimit caps reviews on a product page
	ProductPageReviewsLimit = 10
	// DefaultFeaturedLimit caps the featured listing
	DefaultFeaturedLimit = 8

	imageURLExpiration = time.Hour
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	reviewRepo   catalog.ReviewRepository
	storage      catalog.ObjectStorageService
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	reviewRepo catalog.ReviewRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		logger:       logger,
	}
}

// SetObjectStorage enables image URLs and image cleanup on delete
func (s *ProductService) SetObjectStorage(storage catalog.ObjectStorageService) {
	s.storage = storage
}

// SetEventPublisher sets the event publisher for product events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	product, err := catalog.NewProduct(catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PromoPrice:  req.PromoPrice,
		CategoryID:  req.CategoryID,
		Featured:    req.Featured,
	}, req.Stock)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	return s.toResponse(ctx, product), nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	err = product.Update(catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PromoPrice:  req.PromoPrice,
		CategoryID:  req.CategoryID,
		Featured:    req.Featured,
	})
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, product), nil
}

// Activate makes a product purchasable again
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(p *catalog.Product) { p.Activate() })
}

// Deactivate soft-deletes a product. Its cart lines stay but are no longer priced.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(p *catalog.Product) { p.Deactivate() })
}

// SetFeatured toggles the featured flag
func (s *ProductService) SetFeatured(ctx context.Context, id uuid.UUID, req FeatureProductRequest) (*ProductResponse, error) {
	if req.Featured == nil {
		return nil, shared.NewValidationError("Featured flag is required")
	}
	featured := *req.Featured
	return s.mutate(ctx, id, func(p *catalog.Product) { p.SetFeatured(featured) })
}

func (s *ProductService) mutate(ctx context.Context, id uuid.UUID, fn func(*catalog.Product)) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(product)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)
	return s.toResponse(ctx, product), nil
}

// Delete hard-deletes a product no order refers to. The stored image is
// removed afterwards on a best-effort basis.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteImage(ctx, product.ImageRef)
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// ListPublic pages through active products
func (s *ProductService) ListPublic(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	query := filter.toQuery()
	query.ActiveOnly = true
	return s.list(ctx, query)
}

// ListAdmin pages through all products, inactive ones included
func (s *ProductService) ListAdmin(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	return s.list(ctx, filter.toQuery())
}

// Featured lists active featured products, newest first
func (s *ProductService) Featured(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > shared.MaxPageSize {
		limit = DefaultFeaturedLimit
	}
	filter := shared.DefaultFilter()
	filter.PageSize = limit
	products, _, err := s.productRepo.List(ctx, catalog.ProductQuery{
		Filter:       filter,
		ActiveOnly:   true,
		FeaturedOnly: true,
	})
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, products), nil
}

func (s *ProductService) list(ctx context.Context, query catalog.ProductQuery) (*shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(s.toResponses(ctx, products), total, query.Page, query.PageSize)
	return &page, nil
}

// Detail returns the public product page. Inactive products are not found.
func (s *ProductService) Detail(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrProductNotFound
	}
	related, err := s.productRepo.FindRelated(ctx, product, RelatedProductsLimit)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.FindByProduct(ctx, id, ProductPageReviewsLimit)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.Summarize(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetailResponse{
		Product:       *s.toResponse(ctx, product),
		Related:       s.toResponses(ctx, related),
		Reviews:       ToReviewResponses(reviews),
		ReviewCount:   summary.Count,
		AverageRating: summary.Average,
	}, nil
}

// Get returns any product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, product), nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	category, err := s.categoryRepo.FindByID(ctx, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("Category not found")
	}
	if err != nil {
		return err
	}
	if !category.Active {
		return shared.NewValidationError("Category %q is inactive", category.Name)
	}
	return nil
}

func (s *ProductService) toResponse(ctx context.Context, p *catalog.Product) *ProductResponse {
	resp := ToProductResponse(p)
	resp.ImageURL = imageURL(ctx, s.storage, p.ImageRef, s.logger)
	return &resp
}

func (s *ProductService) toResponses(ctx context.Context, products []catalog.Product) []ProductResponse {
	out := ToProductResponses(products)
	for i := range out {
		out[i].ImageURL = imageURL(ctx, s.storage, out[i].ImageKey, s.logger)
	}
	return out
}

func (s *ProductService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete product image", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProductService) publishEvents(ctx context.Context, p *catalog.Product) {
	defer p.ClearDomainEvents()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, p.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish product events",
			zap.String("product_id", p.ID.String()),
			zap.Error(err),
		)
	}
}

// imageURL resolves a stored image key to a download URL; an empty string
// when there is no image, no storage or the URL cannot be generated
func imageURL(ctx context.Context, storage catalog.ObjectStorageService, key string, logger *zap.Logger) string {
	if key == "" || storage == nil {
		return ""
	}
	url, _, err := storage.GenerateDownloadURL(ctx, key, imageURLExpiration)
	if err != nil {
		logger.Warn("Failed to generate image URL", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
