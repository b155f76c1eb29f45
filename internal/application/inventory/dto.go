package inventory

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// AdjustStockRequest sets an absolute stock level
type AdjustStockRequest struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

// StockLevelResponse reports a product's stock after a change
type StockLevelResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Stock     int       `json:"stock"`
}

// LowStockItem is one entry of the low stock list
type LowStockItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	SoldOut   bool      `json:"sold_out"`
}

// ToLowStockItems maps products to low stock entries
func ToLowStockItems(products []catalog.Product) []LowStockItem {
	items := make([]LowStockItem, len(products))
	for i, p := range products {
		items[i] = LowStockItem{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			SoldOut:   p.Stock == 0,
		}
	}
	return items
}
