// Package report defines flat read models for the admin dashboard and for
// exports. Records are plain values; rendering them to spreadsheets or PDF
// happens outside this service.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRecord is one exported product row
type ProductRecord struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	CategoryName string           `json:"category_name"`
	Price        decimal.Decimal  `json:"price"`
	PromoPrice   *decimal.Decimal `json:"promo_price,omitempty"`
	Stock        int              `json:"stock"`
	Active       bool             `json:"active"`
	Featured     bool             `json:"featured"`
	CreatedAt    time.Time        `json:"created_at"`
}

// OrderRecord is one exported order row
type OrderRecord struct {
	ID            uuid.UUID       `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	Address       string          `json:"address"`
	ItemCount     int64           `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CustomerRecord is one exported customer row
type CustomerRecord struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Active     bool      `json:"active"`
	OrderCount int64     `json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository reads report records
type Repository interface {
	// ProductRecords lists every product by name, with its category name
	ProductRecords(ctx context.Context) ([]ProductRecord, error)
	// OrderRecords lists orders newest first; limit <= 0 means all
	OrderRecords(ctx context.Context, limit int) ([]OrderRecord, error)
	// CustomerRecords lists customers by name with their order counts
	CustomerRecords(ctx context.Context) ([]CustomerRecord, error)
}
