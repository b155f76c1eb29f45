// Package trade models customer orders. An order's total and line items are
// fixed when it is placed; only its status changes afterwards.
package trade

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxAddressLength limits delivery addresses
const MaxAddressLength = 500

// Order is a placed customer order
type Order struct {
	shared.AggregateRoot
	UserID  uuid.UUID
	Total   decimal.Decimal
	Address string
	Status  OrderStatus
	Items   []LineItem
}

// LineItem is one product line of an order. UnitPrice is the price the
// customer paid and never follows later product price changes.
type LineItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal is quantity times unit price
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineDraft describes a line before the order exists
type LineDraft struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NormalizeAddress trims an address and checks it
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", shared.NewValidationError("Delivery address is required")
	}
	if utf8.RuneCountInString(address) > MaxAddressLength {
		return "", shared.NewValidationError("Delivery address cannot exceed %d characters", MaxAddressLength)
	}
	return address, nil
}

// NewOrder creates a pending order and computes its total from the drafts
func NewOrder(userID uuid.UUID, address string, drafts []LineDraft) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User is required")
	}
	address, err := NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, shared.ErrEmptyCart
	}

	o := &Order{
		AggregateRoot: shared.NewAggregateRoot(),
		UserID:        userID,
		Address:       address,
		Status:        OrderStatusPending,
		Total:         decimal.Zero,
		Items:         make([]LineItem, 0, len(drafts)),
	}
	for _, d := range drafts {
		if d.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Line item product is required")
		}
		if d.Quantity <= 0 {
			return nil, shared.NewValidationError("Line item quantity must be greater than zero")
		}
		if !d.UnitPrice.IsPositive() {
			return nil, shared.NewValidationError("Line item price must be greater than zero")
		}
		line := LineItem{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
		}
		o.Items = append(o.Items, line)
		o.Total = o.Total.Add(line.Subtotal())
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// ChangeStatus moves the order along its lifecycle
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("Unknown order status %q", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidStatusTransition.WithMessage(
			"Cannot change order status from %s to %s", o.Status, target)
	}
	from := o.Status
	o.Status = target
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// MarkDeleted records the deletion and the stock it gives back
func (o *Order) MarkDeleted() {
	o.AddDomainEvent(NewOrderDeletedEvent(o))
}

// Movements lists the stock taken by each line
func (o *Order) Movements() []inventory.Movement {
	out := make([]inventory.Movement, 0, len(o.Items))
	for _, item := range o.Items {
		out = append(out, inventory.Movement{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

// ItemsTotal recomputes the sum of line subtotals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsCancelled reports whether the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// BelongsTo reports whether userID placed the order
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}
