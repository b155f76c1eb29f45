// Package cart models a customer's shopping cart: one row per
// (user, product) with a positive quantity bounded by current stock.
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
)

// Item is one product line in a user's cart
type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem creates a cart line after checking the product can supply quantity
func NewItem(userID uuid.UUID, product *catalog.Product, quantity int) (*Item, error) {
	if err := checkQuantity(product, quantity); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Item{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Merge adds quantity to the line. Nothing changes when the combined
// quantity would exceed stock.
func (i *Item) Merge(product *catalog.Product, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	if err := checkQuantity(product, i.Quantity+quantity); err != nil {
		return err
	}
	i.Quantity += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// SetQuantity replaces the line quantity
func (i *Item) SetQuantity(product *catalog.Product, quantity int) error {
	if err := checkQuantity(product, quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// BelongsTo reports whether the line is owned by userID
func (i *Item) BelongsTo(userID uuid.UUID) bool {
	return i.UserID == userID
}

func checkQuantity(product *catalog.Product, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	if product == nil {
		return shared.ErrProductNotFound
	}
	if !product.Active {
		return shared.ErrProductInactive.WithMessage("Product %s is not available", product.Name)
	}
	if quantity > product.Stock {
		return inventory.StockExceeded(product.Name, quantity, product.Stock)
	}
	return nil
}

// Line is a cart item joined with its product
type Line struct {
	Item      Item
	Product   catalog.Product
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Snapshot is the priced content of a cart at one instant
type Snapshot struct {
	UserID    uuid.UUID
	Lines     []Line
	Total     decimal.Decimal
	ItemCount int
	// Unavailable holds items left out because their product is gone or
	// inactive. Product is nil for a missing product.
	Unavailable []UnavailableLine
}

// UnavailableLine is a cart item that cannot be bought right now
type UnavailableLine struct {
	Item    Item
	Product *catalog.Product
}

// NewSnapshot prices the given item/product pairs. Items whose product is
// missing or inactive are left out of Lines and listed in Unavailable.
func NewSnapshot(userID uuid.UUID, items []Item, products map[uuid.UUID]*catalog.Product) *Snapshot {
	s := &Snapshot{
		UserID: userID,
		Lines:  make([]Line, 0, len(items)),
		Total:  decimal.Zero,
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || product == nil || !product.Active {
			s.Unavailable = append(s.Unavailable, UnavailableLine{Item: item, Product: product})
			continue
		}
		price := product.EffectivePrice()
		subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		s.Lines = append(s.Lines, Line{
			Item:      item,
			Product:   *product,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
		s.Total = s.Total.Add(subtotal)
		s.ItemCount += item.Quantity
	}
	return s
}

// IsEmpty reports whether the snapshot has no purchasable lines
func (s *Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// CheckAvailable fails for the first item whose product is missing or
// inactive
func (s *Snapshot) CheckAvailable() error {
	if len(s.Unavailable) == 0 {
		return nil
	}
	first := s.Unavailable[0]
	if first.Product == nil {
		return shared.ErrProductNotFound.WithMessage("Product %s is no longer sold", first.Item.ProductID)
	}
	return shared.ErrProductInactive.WithMessage("Product %s is not available", first.Product.Name)
}

// CheckStock returns a stock error for the first line whose quantity
// exceeds the product's stock
func (s *Snapshot) CheckStock() error {
	for _, line := range s.Lines {
		if line.Item.Quantity > line.Product.Stock {
			return inventory.StockExceeded(line.Product.Name, line.Item.Quantity, line.Product.Stock)
		}
	}
	return nil
}
