package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/shared"
)

// IdempotencyKeyHeader carries the client's checkout retry key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// OrderHandler serves checkout and the customer's order history
type OrderHandler struct {
	BaseHandler
	orderService *apptrade.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *apptrade.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder godoc
// @Summary      Check out the cart
// @Description  Turns the cart into a pending order, reserving stock. A repeated Idempotency-Key is rejected.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                       false "Client retry key"
// @Param        request         body   apptrade.PlaceOrderRequest   true  "Delivery address"
// @Success      201 {object} dto.Response{data=apptrade.OrderResponse}
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.HandleDomainError(c, shared.NewValidationError("%s cannot exceed %d characters", IdempotencyKeyHeader, maxIdempotencyKeyLength))
		return
	}
	var req apptrade.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req, key)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @Summary      The customer's orders
// @Tags         orders
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]apptrade.OrderListItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var filter apptrade.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.orderService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Get godoc
// @Summary      One of the customer's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=apptrade.OrderResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetForUser(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}
