package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductStatusChanged = "ProductStatusChanged"
)

// AggregateTypeProduct names the product aggregate in events
const AggregateTypeProduct = "Product"

// ProductCreatedEvent is raised when a product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Name:            p.Name,
		Stock:           p.Stock,
	}
}

// ProductStatusChangedEvent is raised when a product is activated or deactivated
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Active    bool      `json:"active"`
}

// NewProductStatusChangedEvent creates a ProductStatusChangedEvent
func NewProductStatusChangedEvent(p *Product) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Active:          p.Active,
	}
}
