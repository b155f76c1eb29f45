package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for trade.Order
type OrderModel struct {
	BaseModel
	UserID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Total   decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Address string            `gorm:"type:varchar(500);not null"`
	Status  trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain order without line items
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		AggregateRoot: shared.AggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		UserID:        m.UserID,
		Total:         m.Total,
		Address:       m.Address,
		Status:        m.Status,
	}
}

// FromDomain populates the model from a domain order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.Total = o.Total
	m.Address = o.Address
	m.Status = o.Status
}

// OrderItemModel is the persistence model for trade.LineItem
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model to a domain line item
func (m *OrderItemModel) ToDomain() trade.LineItem {
	return trade.LineItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}
}

// FromDomain populates the model from a domain line item
func (m *OrderItemModel) FromDomain(l trade.LineItem) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ProductID = l.ProductID
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
}

// OrderItemRow is an order line joined with its product name
type OrderItemRow struct {
	OrderItemModel
	ProductName string
}

// ToDomain converts the joined row to a domain line item
func (r *OrderItemRow) ToDomain() trade.LineItem {
	l := r.OrderItemModel.ToDomain()
	l.ProductName = r.ProductName
	return l
}
