package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
)

// CatalogHandler serves the public catalog and customer reviews
type CatalogHandler struct {
	BaseHandler
	products   *appcatalog.ProductService
	categories *appcatalog.CategoryService
	reviews    *appcatalog.ReviewService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products *appcatalog.ProductService, categories *appcatalog.CategoryService, reviews *appcatalog.ReviewService) *CatalogHandler {
	return &CatalogHandler{products: products, categories: categories, reviews: reviews}
}

// ListProducts godoc
// @Summary      Browse active products
// @Tags         catalog
// @Produce      json
// @Param        category  query string false "Category ID"
// @Param        search    query string false "Name or description contains"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]appcatalog.ProductResponse,meta=dto.Meta}
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter appcatalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.products.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Featured godoc
// @Summary      Featured products
// @Tags         catalog
// @Produce      json
// @Param        limit query int false "Maximum number of products"
// @Success      200 {object} dto.Response{data=[]appcatalog.ProductResponse}
// @Router       /catalog/products/featured [get]
func (h *CatalogHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := h.products.Featured(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, products)
}

// ProductDetail godoc
// @Summary      Product page
// @Description  An active product with related products and recent reviews
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=appcatalog.ProductDetailResponse}
// @Failure      404 {object} dto.Response
// @Router       /catalog/products/{id} [get]
func (h *CatalogHandler) ProductDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.products.Detail(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// ListReviews godoc
// @Summary      Product reviews
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=[]appcatalog.ReviewResponse}
// @Router       /catalog/products/{id}/reviews [get]
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	reviews, err := h.reviews.ListForProduct(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, reviews)
}

// CreateReview godoc
// @Summary      Review a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Product ID"
// @Param        request body appcatalog.CreateReviewRequest true "Review"
// @Success      201 {object} dto.Response{data=appcatalog.ReviewResponse}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/products/{id}/reviews [post]
func (h *CatalogHandler) CreateReview(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, review)
}

// ListCategories godoc
// @Summary      Active categories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcatalog.CategoryResponse}
// @Router       /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), true)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, categories)
}
