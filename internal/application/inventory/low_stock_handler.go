package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Alert types
const (
	AlertLowStock = "low_stock"
	AlertSoldOut  = "sold_out"
)

// StockAlert describes a product that needs restocking
type StockAlert struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
	AlertType string    `json:"alert_type"`
	OrderID   uuid.UUID `json:"order_id"`
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// LowStockHandler checks the products touched by a placed order and raises
// an alert for each one left below the threshold
type LowStockHandler struct {
	products  catalog.ProductRepository
	threshold int
	notifier  StockAlertNotifier
	logger    *zap.Logger
}

// NewLowStockHandler creates the handler. Alerts go to a
// LoggingStockAlertNotifier unless WithNotifier replaces it.
func NewLowStockHandler(products catalog.ProductRepository, threshold int, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		products:  products,
		threshold: threshold,
		notifier:  NewLoggingStockAlertNotifier(logger),
		logger:    logger,
	}
}

// WithNotifier replaces the alert notifier
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the events the handler consumes
func (h *LowStockHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced}
}

// Handle reads current stock for the order's products
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*trade.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderPlaced, event.EventType())
	}

	ids := make([]uuid.UUID, 0, len(placed.Movements))
	for _, m := range placed.Movements {
		ids = append(ids, m.ProductID)
	}
	products, err := h.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		p, ok := products[id]
		if !ok || !p.Active || p.Stock >= h.threshold {
			continue
		}
		alert := StockAlert{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: h.threshold,
			AlertType: AlertLowStock,
			OrderID:   placed.OrderID,
		}
		if p.Stock == 0 {
			alert.AlertType = AlertSoldOut
		}
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			// a failed alert must not fail the other products
			h.logger.Error("Failed to send stock alert",
				zap.String("product_id", p.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a LoggingStockAlertNotifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs alert as a warning
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("Stock below threshold",
		zap.String("alert_type", alert.AlertType),
		zap.String("product_id", alert.ProductID.String()),
		zap.String("product", alert.Name),
		zap.Int("stock", alert.Stock),
		zap.Int("threshold", alert.Threshold),
		zap.String("order_id", alert.OrderID.String()),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
