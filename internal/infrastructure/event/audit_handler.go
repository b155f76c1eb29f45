package event

import (
	"context"
	"encoding/json"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditHandler writes every domain event to the log as JSON
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(log *zap.Logger) *AuditHandler {
	return &AuditHandler{logger: log.Named("audit")}
}

// EventTypes subscribes to all events
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle logs the event payload
func (h *AuditHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	logger.Enrich(ctx, h.logger).Info("Domain event",
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
		zap.ByteString("payload", payload),
	)
	return nil
}
