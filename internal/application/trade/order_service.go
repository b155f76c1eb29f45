// Package trade implements checkout and order administration
package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appinv "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a checkout key stays consumed
const DefaultIdempotencyTTL = 24 * time.Hour

// OrderService turns carts into orders and administers them afterwards
type OrderService struct {
	scope     appinv.TransactionScope
	orders    trade.OrderRepository
	products  catalog.ProductRepository
	logger    *zap.Logger
	publisher shared.EventPublisher
	metrics   *telemetry.BusinessMetrics
	keys      shared.IdempotencyStore
	keyTTL    time.Duration
	images    catalog.ObjectStorageService
}

// NewOrderService creates an OrderService
func NewOrderService(scope appinv.TransactionScope, orders trade.OrderRepository, products catalog.ProductRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		scope:    scope,
		orders:   orders,
		products: products,
		logger:   logger,
		keyTTL:   DefaultIdempotencyTTL,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// SetIdempotencyStore enables checkout idempotency keys
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.keys = store
	if ttl > 0 {
		s.keyTTL = ttl
	}
}

// SetObjectStorage lets product purges remove the product images too
func (s *OrderService) SetObjectStorage(storage catalog.ObjectStorageService) {
	s.images = storage
}

// PlaceOrder checks out the user's cart. The order, its lines, the stock
// reservations and the emptied cart commit together or not at all.
//
// A non-empty idempotencyKey may be used once per user; a repeat fails
// with DUPLICATE_REQUEST. The key is released again when checkout fails.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest, idempotencyKey string) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place", telemetry.SpanAttrUserID, userID)
	defer span.End()
	log := logger.Enrich(ctx, s.logger)

	order, err := s.placeOrder(ctx, userID, req, idempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		if s.metrics != nil {
			s.metrics.RecordCheckoutFailure(ctx, errorCode(err))
		}
		log.Info("Checkout rejected", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrItemCount, len(order.Items))
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, order.Total)
	}
	s.publishEvents(ctx, order)
	log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.StringFixed(2)),
	)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) placeOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest, idempotencyKey string) (*trade.Order, error) {
	address, err := trade.NormalizeAddress(req.Address)
	if err != nil {
		return nil, err
	}

	key := ""
	if idempotencyKey != "" && s.keys != nil {
		key = userID.String() + ":" + idempotencyKey
		fresh, err := s.keys.MarkProcessed(ctx, key, s.keyTTL)
		if err != nil {
			return nil, shared.ErrOrderFailed.Wrap(err)
		}
		if !fresh {
			return nil, shared.ErrDuplicateRequest
		}
	}

	var order *trade.Order
	err = s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		snapshot, err := cart.LoadSnapshot(ctx, repos.Carts(), repos.Products(), userID)
		if err != nil {
			return err
		}
		if err := snapshot.CheckAvailable(); err != nil {
			return err
		}
		if snapshot.IsEmpty() {
			return shared.ErrEmptyCart
		}
		if err := snapshot.CheckStock(); err != nil {
			return err
		}

		drafts := make([]trade.LineDraft, len(snapshot.Lines))
		for i, line := range snapshot.Lines {
			drafts[i] = trade.LineDraft{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				Quantity:    line.Item.Quantity,
				UnitPrice:   line.UnitPrice,
			}
		}
		order, err = trade.NewOrder(userID, address, drafts)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, order); err != nil {
			return err
		}

		ledger := repos.Ledger()
		for _, line := range order.Items {
			if err := ledger.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		_, err = repos.Carts().DeleteByUser(ctx, userID)
		return err
	})
	if err != nil {
		if key != "" {
			if relErr := s.keys.Release(ctx, key); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		}
		return nil, checkoutError(err)
	}
	return order, nil
}

// checkoutError keeps domain errors and reports anything else, storage
// failures included, as ORDER_FAILED
func checkoutError(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Code != shared.CodeStorage {
		return err
	}
	return shared.ErrOrderFailed.Wrap(err)
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "UNKNOWN"
}

// UpdateStatus moves an order along the status table
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target, err := trade.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		orders := repos.Orders()
		var err error
		order, err = orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.ChangeStatus(target); err != nil {
			return err
		}
		return orders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(ctx, target.String())
	}
	s.publishEvents(ctx, order)
	logger.Enrich(ctx, s.logger).Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("status", target.String()),
	)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// DeleteOrder removes an order and gives its stock back. Deleting an order
// that is already gone reports ORDER_NOT_FOUND and restores nothing.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "delete", telemetry.SpanAttrOrderID, orderID)
	defer span.End()

	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		orders := repos.Orders()
		var err error
		order, err = orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := orders.Delete(ctx, orderID); err != nil {
			return err
		}
		ledger := repos.Ledger()
		for _, m := range order.Movements() {
			if err := ledger.Restore(ctx, m.ProductID, m.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	order.MarkDeleted()
	units := 0
	for _, m := range order.Movements() {
		units += m.Quantity
	}
	if s.metrics != nil {
		s.metrics.RecordStockRestored(ctx, units)
	}
	s.publishEvents(ctx, order)
	logger.Enrich(ctx, s.logger).Info("Order deleted",
		zap.String("order_id", orderID.String()),
		zap.Int("units_restored", units),
	)
	return nil
}

// PurgeCancelledOrders deletes every cancelled order, one transaction each.
// Orders that fail are logged and counted, not retried.
func (s *OrderService) PurgeCancelledOrders(ctx context.Context) (*PurgeResult, error) {
	ids, err := s.orders.FindIDsByStatus(ctx, trade.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	result := &PurgeResult{}
	for _, id := range ids {
		if err := s.DeleteOrder(ctx, id); err != nil {
			result.Failed++
			s.logger.Warn("Failed to purge cancelled order",
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
			continue
		}
		result.Deleted++
	}
	s.logger.Info("Purged cancelled orders",
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// PurgeInactiveProducts hard-deletes inactive products that no order refers
// to, along with their cart lines, reviews and stored image. A product
// reactivated after the listing is skipped.
func (s *OrderService) PurgeInactiveProducts(ctx context.Context) (*PurgeResult, error) {
	products, err := s.products.FindInactiveUnreferenced(ctx)
	if err != nil {
		return nil, err
	}
	result := &PurgeResult{}
	for _, p := range products {
		if err := s.products.DeleteInactive(ctx, p.ID); err != nil {
			result.Failed++
			s.logger.Warn("Failed to purge inactive product",
				zap.String("product_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.deleteImage(ctx, p.ImageRef)
		result.Deleted++
	}
	s.logger.Info("Purged inactive products",
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *OrderService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete product image", zap.String("key", key), zap.Error(err))
	}
}

// ListForUser pages through the user's own orders
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	return s.list(ctx, &userID, filter)
}

// ListAll pages through every order, optionally by status
func (s *OrderService) ListAll(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	return s.list(ctx, nil, filter)
}

func (s *OrderService) list(ctx context.Context, userID *uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	query := trade.OrderQuery{Filter: filter.toFilter(), UserID: userID}
	if filter.Status != "" {
		status, err := trade.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query.Status = &status
	}
	orders, total, err := s.orders.List(ctx, query)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderListItemResponses(orders), total, query.Page, query.PageSize)
	return &page, nil
}

// GetForUser returns one of the user's orders. Other users' orders are
// reported as not found.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.BelongsTo(userID) {
		return nil, shared.ErrOrderNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Get returns any order
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	defer order.ClearDomainEvents()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		// the transaction has committed; a lost event is only logged
		s.logger.Error("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
