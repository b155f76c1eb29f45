package trade

import "github.com/storefront/backend/internal/domain/shared"

// OrderStatus is the lifecycle state of an order. Changes are made by an
// administrator; nothing advances an order automatically.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// AllOrderStatuses lists statuses in lifecycle order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// ParseOrderStatus validates a raw status string
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.IsValid() {
		return "", shared.NewValidationError("Unknown order status %q", raw)
	}
	return s, nil
}

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo checks if the status can move to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := allowedTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}
