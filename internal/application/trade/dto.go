package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// PlaceOrderRequest is the checkout payload
type PlaceOrderRequest struct {
	Address string `json:"address" binding:"required,max=500"`
}

// UpdateStatusRequest moves an order to another status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at total status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status"`
}

func (f OrderListFilter) toFilter() shared.Filter {
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
	return filter.Normalize()
}

// LineItemResponse is one order line
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is an order with its lines
type OrderResponse struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"user_id"`
	Status       string             `json:"status"`
	Address      string             `json:"address"`
	Total        decimal.Decimal    `json:"total"`
	Items        []LineItemResponse `json:"items"`
	NextStatuses []string           `json:"next_statuses"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// OrderListItemResponse is an order header in listings
type OrderListItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// PurgeResult counts the outcome of a bulk cleanup
type PurgeResult struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// ToOrderResponse converts an order with its lines
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}
	next := o.Status.NextStatuses()
	nextStatuses := make([]string, len(next))
	for i, s := range next {
		nextStatuses[i] = s.String()
	}
	return OrderResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		Status:       o.Status.String(),
		Address:      o.Address,
		Total:        o.Total,
		Items:        items,
		NextStatuses: nextStatuses,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToOrderListItemResponses converts order headers
func ToOrderListItemResponses(orders []trade.Order) []OrderListItemResponse {
	out := make([]OrderListItemResponse, len(orders))
	for i, o := range orders {
		out[i] = OrderListItemResponse{
			ID:        o.ID,
			UserID:    o.UserID,
			Status:    o.Status.String(),
			Total:     o.Total,
			CreatedAt: o.CreatedAt,
		}
	}
	return out
}
