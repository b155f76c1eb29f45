package handler

import (
	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
)

// CartHandler serves the authenticated user's cart
type CartHandler struct {
	BaseHandler
	cartService *appcart.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *appcart.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @Summary      Priced cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=appcart.CartResponse}
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	snapshot, err := h.cartService.Snapshot(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Merges into an existing line for the same product. The merged quantity may not exceed stock.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.AddItemRequest true "Product and quantity"
// @Success      201 {object} dto.Response{data=appcart.ItemResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.cartService.AddOrMerge(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem godoc
// @Summary      Set a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Cart item ID"
// @Param        request body appcart.UpdateItemRequest true "Quantity"
// @Success      200 {object} dto.Response{data=appcart.ItemResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appcart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.cartService.SetQuantity(c.Request.Context(), userID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Param        id path string true "Cart item ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cartService.Remove(c.Request.Context(), userID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Success      204
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	if _, err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
