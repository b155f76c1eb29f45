package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeOrder names the order aggregate in events
const AggregateTypeOrder = "Order"

// Event types
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderDeleted       = "OrderDeleted"
)

// OrderPlacedEvent is raised after checkout commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID            `json:"order_id"`
	UserID    uuid.UUID            `json:"user_id"`
	Total     decimal.Decimal      `json:"total"`
	Movements []inventory.Movement `json:"movements"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Total:           o.Total,
		Movements:       o.Movements(),
	}
}

// OrderStatusChangedEvent is raised when an administrator changes the status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID   `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
	}
}

// OrderDeletedEvent is raised when an order is removed and its stock returned
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID            `json:"order_id"`
	Status    OrderStatus          `json:"status"`
	Movements []inventory.Movement `json:"movements"`
}

// NewOrderDeletedEvent creates an OrderDeletedEvent
func NewOrderDeletedEvent(o *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Status:          o.Status,
		Movements:       o.Movements(),
	}
}
