package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/storefront/backend/internal/application/trade"
)

// AdminOrderHandler serves order administration and bulk cleanup
type AdminOrderHandler struct {
	BaseHandler
	orderService *apptrade.OrderService
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(orderService *apptrade.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService}
}

// List godoc
// @Summary      All orders
// @Tags         admin-orders
// @Produce      json
// @Param        status    query string false "Order status"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]apptrade.OrderListItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) List(c *gin.Context) {
	var filter apptrade.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Get godoc
// @Summary      Get any order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=apptrade.OrderResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *AdminOrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus godoc
// @Summary      Change an order's status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Order ID"
// @Param        request body apptrade.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=apptrade.OrderResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req apptrade.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Restores the stock of every line before removing the order
// @Tags         admin-orders
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id} [delete]
func (h *AdminOrderHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// PurgeCancelled godoc
// @Summary      Delete every cancelled order
// @Tags         admin-orders
// @Produce      json
// @Success      200 {object} dto.Response{data=apptrade.PurgeResult}
// @Security     BearerAuth
// @Router       /admin/orders/purge-cancelled [post]
func (h *AdminOrderHandler) PurgeCancelled(c *gin.Context) {
	result, err := h.orderService.PurgeCancelledOrders(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// PurgeInactiveProducts godoc
// @Summary      Delete inactive products no order refers to
// @Tags         admin-orders
// @Produce      json
// @Success      200 {object} dto.Response{data=apptrade.PurgeResult}
// @Security     BearerAuth
// @Router       /admin/products/purge-inactive [post]
func (h *AdminOrderHandler) PurgeInactiveProducts(c *gin.Context) {
	result, err := h.orderService.PurgeInactiveProducts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
