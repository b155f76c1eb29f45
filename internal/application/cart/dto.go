package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest replaces a line quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ItemResponse is a stored cart line
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineResponse is a priced cart line
type LineResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageRef    string          `json:"image_ref,omitempty"`
	Quantity    int             `json:"quantity"`
	Stock       int             `json:"stock"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse is the priced cart
type CartResponse struct {
	Lines     []LineResponse  `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// ToItemResponse converts a cart line
func ToItemResponse(item *cart.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UpdatedAt: item.UpdatedAt,
	}
}

// ToCartResponse converts a snapshot
func ToCartResponse(s *cart.Snapshot) CartResponse {
	lines := make([]LineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = LineResponse{
			ItemID:      l.Item.ID,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			ImageRef:    l.Product.ImageRef,
			Quantity:    l.Item.Quantity,
			Stock:       l.Product.Stock,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		}
	}
	return CartResponse{Lines: lines, Total: s.Total, ItemCount: s.ItemCount}
}
