package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appinventory "github.com/storefront/backend/internal/application/inventory"
)

// AdminCatalogHandler serves product, category, stock and image administration
type AdminCatalogHandler struct {
	BaseHandler
	products   *appcatalog.ProductService
	categories *appcatalog.CategoryService
	images     *appcatalog.ImageService
	ledger     *appinventory.LedgerService
}

// NewAdminCatalogHandler creates a new AdminCatalogHandler
func NewAdminCatalogHandler(
	products *appcatalog.ProductService,
	categories *appcatalog.CategoryService,
	images *appcatalog.ImageService,
	ledger *appinventory.LedgerService,
) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		products:   products,
		categories: categories,
		images:     images,
		ledger:     ledger,
	}
}

// ListProducts godoc
// @Summary      List all products
// @Description  Includes inactive products
// @Tags         admin-products
// @Produce      json
// @Param        category  query string false "Category ID"
// @Param        search    query string false "Name or description contains"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]appcatalog.ProductResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *AdminCatalogHandler) ListProducts(c *gin.Context) {
	var filter appcatalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.products.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetProduct godoc
// @Summary      Get a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *AdminCatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// CreateProduct godoc
// @Summary      Create a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=appcatalog.ProductResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *AdminCatalogHandler) CreateProduct(c *gin.Context) {
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct godoc
// @Summary      Update a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Product ID"
// @Param        request body appcatalog.UpdateProductRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *AdminCatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// ActivateProduct godoc
// @Summary      Activate a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/activate [post]
func (h *AdminCatalogHandler) ActivateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// DeactivateProduct godoc
// @Summary      Deactivate a product
// @Description  Hides the product from the catalog and from priced carts
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/deactivate [post]
func (h *AdminCatalogHandler) DeactivateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// FeatureProduct godoc
// @Summary      Mark or unmark a product as featured
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Product ID"
// @Param        request body appcatalog.FeatureProductRequest true "Featured flag"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/feature [put]
func (h *AdminCatalogHandler) FeatureProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.FeatureProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.SetFeatured(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct godoc
// @Summary      Delete a product
// @Description  Refused with PRODUCT_IN_USE while any order line references it
// @Tags         admin-products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *AdminCatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock godoc
// @Summary      Set a product's stock level
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Product ID"
// @Param        request body appinventory.AdjustStockRequest true "New stock"
// @Success      200 {object} dto.Response{data=appinventory.StockLevelResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/stock [put]
func (h *AdminCatalogHandler) AdjustStock(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	level, err := h.ledger.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, level)
}

// LowStock godoc
// @Summary      Products at or below the low stock threshold
// @Tags         admin-inventory
// @Produce      json
// @Param        threshold query int false "Stock threshold"
// @Param        limit     query int false "Maximum number of products"
// @Success      200 {object} dto.Response{data=[]appinventory.LowStockItem}
// @Security     BearerAuth
// @Router       /admin/inventory/low-stock [get]
func (h *AdminCatalogHandler) LowStock(c *gin.Context) {
	threshold, _ := strconv.Atoi(c.Query("threshold"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.ledger.LowStock(c.Request.Context(), threshold, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// RequestImageUpload godoc
// @Summary      Presigned image upload URL
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Product ID"
// @Param        request body appcatalog.ImageUploadRequest true "File name"
// @Success      200 {object} dto.Response{data=appcatalog.ImageUploadResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/image/upload-url [post]
func (h *AdminCatalogHandler) RequestImageUpload(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	upload, err := h.images.RequestUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, upload)
}

// AttachImage godoc
// @Summary      Attach an uploaded image
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Product ID"
// @Param        request body appcatalog.AttachImageRequest true "Object key"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/image [put]
func (h *AdminCatalogHandler) AttachImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.images.Attach(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// ClearImage godoc
// @Summary      Remove a product's image
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=appcatalog.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/image [delete]
func (h *AdminCatalogHandler) ClearImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.images.Clear(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories godoc
// @Summary      All categories
// @Tags         admin-categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcatalog.CategoryResponse}
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *AdminCatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), false)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=appcatalog.CategoryResponse}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *AdminCatalogHandler) CreateCategory(c *gin.Context) {
	var req appcatalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Category ID"
// @Param        request body appcatalog.CategoryRequest true "Category"
// @Success      200 {object} dto.Response{data=appcatalog.CategoryResponse}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *AdminCatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// ActivateCategory godoc
// @Summary      Activate a category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=appcatalog.CategoryResponse}
// @Security     BearerAuth
// @Router       /admin/categories/{id}/activate [post]
func (h *AdminCatalogHandler) ActivateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// DeactivateCategory godoc
// @Summary      Deactivate a category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=appcatalog.CategoryResponse}
// @Security     BearerAuth
// @Router       /admin/categories/{id}/deactivate [post]
func (h *AdminCatalogHandler) DeactivateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}
