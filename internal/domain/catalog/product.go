package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Field limits
const (
	MaxProductNameLength        = 200
	MaxProductDescriptionLength = 5000
	MaxImageRefLength           = 500
)

// Product is a sellable item. Stock lives on the product row itself and is
// only ever decremented through the inventory ledger.
type Product struct {
	shared.AggregateRoot
	Name        string
	Description string
	Price       decimal.Decimal
	PromoPrice  *decimal.Decimal
	Stock       int
	Active      bool
	Featured    bool
	CategoryID  *uuid.UUID
	ImageRef    string
}

// ProductDetails carries the editable fields of a product
type ProductDetails struct {
	Name        string
	Description string
	Price       decimal.Decimal
	PromoPrice  *decimal.Decimal
	CategoryID  *uuid.UUID
	Featured    bool
}

// NewProduct creates an active product
func NewProduct(details ProductDetails, stock int) (*Product, error) {
	if stock < 0 {
		return nil, shared.NewValidationError("Stock cannot be negative")
	}
	p := &Product{
		AggregateRoot: shared.NewAggregateRoot(),
		Stock:         stock,
		Active:        true,
	}
	if err := p.apply(details); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(details ProductDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Product) apply(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if utf8.RuneCountInString(d.Description) > MaxProductDescriptionLength {
		return shared.NewValidationError("Description cannot exceed %d characters", MaxProductDescriptionLength)
	}
	price := d.Price.Round(2)
	var promo *decimal.Decimal
	if d.PromoPrice != nil {
		rounded := d.PromoPrice.Round(2)
		promo = &rounded
	}
	if err := validatePrices(price, promo); err != nil {
		return err
	}

	p.Name = name
	p.Description = strings.TrimSpace(d.Description)
	p.Price = price
	p.PromoPrice = promo
	p.CategoryID = d.CategoryID
	p.Featured = d.Featured
	return nil
}

// EffectivePrice is the promotional price when set, otherwise the base price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.PromoPrice != nil {
		return *p.PromoPrice
	}
	return p.Price
}

// HasPromotion reports whether a promotional price applies
func (p *Product) HasPromotion() bool {
	return p.PromoPrice != nil
}

// CanSupply reports whether quantity units can be taken from stock
func (p *Product) CanSupply(quantity int) bool {
	return p.Active && quantity > 0 && quantity <= p.Stock
}

// Activate makes the product visible and purchasable
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.Touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p))
}

// Deactivate soft-deletes the product
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.Touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p))
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.Touch()
}

// SetImage stores an image reference and returns the one it replaced
func (p *Product) SetImage(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", shared.NewValidationError("Image reference cannot be empty")
	}
	if len(ref) > MaxImageRefLength {
		return "", shared.NewValidationError("Image reference cannot exceed %d characters", MaxImageRefLength)
	}
	previous := p.ImageRef
	p.ImageRef = ref
	p.Touch()
	return previous, nil
}

// ClearImage removes the image reference and returns the old one
func (p *Product) ClearImage() string {
	previous := p.ImageRef
	p.ImageRef = ""
	p.Touch()
	return previous
}

// SetStock sets an absolute stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewValidationError("Stock cannot be negative")
	}
	p.Stock = stock
	p.Touch()
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("Product name is required")
	}
	if utf8.RuneCountInString(name) > MaxProductNameLength {
		return shared.NewValidationError("Product name cannot exceed %d characters", MaxProductNameLength)
	}
	return nil
}

func validatePrices(price decimal.Decimal, promo *decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewValidationError("Price must be greater than zero")
	}
	if promo == nil {
		return nil
	}
	if !promo.IsPositive() {
		return shared.NewValidationError("Promotional price must be greater than zero")
	}
	if !promo.LessThan(price) {
		return shared.NewValidationError("Promotional price must be lower than the regular price")
	}
	return nil
}
