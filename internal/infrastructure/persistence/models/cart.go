package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartItemModel is the persistence model for cart.Item.
// (user_id, product_id) is unique so a product appears once per cart.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:2;index"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the model to a domain cart item
func (m *CartItemModel) ToDomain() *cart.Item {
	return &cart.Item{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain cart item
func (m *CartItemModel) FromDomain(i *cart.Item) {
	m.ID = i.ID
	m.UserID = i.UserID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}
