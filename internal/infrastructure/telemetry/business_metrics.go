package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StockHealthProvider reports stock levels for the observable gauges
type StockHealthProvider interface {
	StockHealth(ctx context.Context) (low, soldOut int64, err error)
}

// BusinessMetrics records checkout and inventory activity
type BusinessMetrics struct {
	logger *zap.Logger

	ordersPlaced     *Counter
	orderAmountCents *Counter
	checkoutFailures *Counter
	statusChanges    *Counter
	stockRestored    *Counter

	registration metric.Registration
}

// BusinessMetricsConfig configures NewBusinessMetrics
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	Stock  StockHealthProvider // optional
}

// NewBusinessMetrics creates the counters and, when a stock provider is
// given, the gauges it feeds on every collection
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	var err error
	if bm.ordersPlaced, err = NewCounter(cfg.Meter, "storefront_orders_placed_total", "Orders placed", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderAmountCents, err = NewCounter(cfg.Meter, "storefront_order_amount_cents_total", "Order value placed in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.checkoutFailures, err = NewCounter(cfg.Meter, "storefront_checkout_failures_total", "Rejected checkouts by error code", "{checkouts}"); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = NewCounter(cfg.Meter, "storefront_order_status_changes_total", "Order status transitions by target status", "{changes}"); err != nil {
		return nil, err
	}
	if bm.stockRestored, err = NewCounter(cfg.Meter, "storefront_stock_restored_units_total", "Units returned to stock by order deletion", "{units}"); err != nil {
		return nil, err
	}

	if cfg.Stock != nil {
		if err := bm.observeStock(cfg.Meter, cfg.Stock); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

func (bm *BusinessMetrics) observeStock(meter metric.Meter, provider StockHealthProvider) error {
	low, err := meter.Int64ObservableGauge("storefront_products_low_stock",
		metric.WithDescription("Active products below the low stock threshold"), metric.WithUnit("{products}"))
	if err != nil {
		return err
	}
	soldOut, err := meter.Int64ObservableGauge("storefront_products_sold_out",
		metric.WithDescription("Active products with no stock"), metric.WithUnit("{products}"))
	if err != nil {
		return err
	}
	bm.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		l, s, err := provider.StockHealth(ctx)
		if err != nil {
			bm.logger.Warn("Failed to collect stock health", zap.Error(err))
			return nil
		}
		o.ObserveInt64(low, l)
		o.ObserveInt64(soldOut, s)
		return nil
	}, low, soldOut)
	return err
}

// RecordOrderPlaced counts an order and its value
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal) {
	bm.ordersPlaced.Inc(ctx)
	bm.orderAmountCents.Add(ctx, total.Shift(2).Round(0).IntPart())
}

// RecordCheckoutFailure counts a rejected checkout by its error code
func (bm *BusinessMetrics) RecordCheckoutFailure(ctx context.Context, code string) {
	bm.checkoutFailures.Inc(ctx, AttrErrorCode.String(code))
}

// RecordStatusChange counts a transition into status
func (bm *BusinessMetrics) RecordStatusChange(ctx context.Context, status string) {
	bm.statusChanges.Inc(ctx, AttrOrderStatus.String(status))
}

// RecordStockRestored counts units given back to stock
func (bm *BusinessMetrics) RecordStockRestored(ctx context.Context, units int) {
	bm.stockRestored.Add(ctx, int64(units))
}

// Stop unregisters the stock gauges
func (bm *BusinessMetrics) Stop() error {
	if bm.registration == nil {
		return nil
	}
	return bm.registration.Unregister()
}
