package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	PromoPrice  *decimal.Decimal `json:"promo_price"`
	Stock       int              `json:"stock" binding:"min=0"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Featured    bool             `json:"featured"`
}

// UpdateProductRequest replaces a product's editable fields. Stock is
// changed through the inventory endpoints.
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	PromoPrice  *decimal.Decimal `json:"promo_price"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Featured    bool             `json:"featured"`
}

// FeatureProductRequest toggles the featured flag
type FeatureProductRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

// ProductListFilter narrows product listings
type ProductListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at name price stock"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"omitempty,uuid"`
}

func (f ProductListFilter) toQuery() catalog.ProductQuery {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	query := catalog.ProductQuery{Filter: filter.Normalize()}
	if id, err := uuid.Parse(f.Category); err == nil {
		query.CategoryID = &id
	}
	return query
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	PromoPrice     *decimal.Decimal `json:"promo_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Stock          int              `json:"stock"`
	Active         bool             `json:"active"`
	Featured       bool             `json:"featured"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	ImageKey       string           `json:"image_key,omitempty"`
	ImageURL       string           `json:"image_url,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ProductDetailResponse is the public product page
type ProductDetailResponse struct {
	Product       ProductResponse   `json:"product"`
	Related       []ProductResponse `json:"related"`
	Reviews       []ReviewResponse  `json:"reviews"`
	ReviewCount   int64             `json:"review_count"`
	AverageRating float64           `json:"average_rating"`
}

// ToProductResponse converts a domain Product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		PromoPrice:     p.PromoPrice,
		EffectivePrice: p.EffectivePrice(),
		Stock:          p.Stock,
		Active:         p.Active,
		Featured:       p.Featured,
		CategoryID:     p.CategoryID,
		ImageKey:       p.ImageRef,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateReviewRequest rates a product
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ToReviewResponses converts reviews
func ToReviewResponses(reviews []catalog.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			ProductID: r.ProductID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}

// ImageUploadRequest asks for a presigned upload URL
type ImageUploadRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
}

// ImageUploadResponse tells the client where to PUT the image bytes
type ImageUploadResponse struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"upload_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AttachImageRequest attaches an uploaded object to a product
type AttachImageRequest struct {
	Key string `json:"key" binding:"required,max=500"`
}
