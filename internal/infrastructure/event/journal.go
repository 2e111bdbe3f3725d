package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/terravest/backend/internal/domain/shared"
)

var _ shared.EventHandler = (*JournalHandler)(nil)

// JournalHandler is a catch-all subscriber that writes every domain event
// to the structured log as its JSON payload. It gives operators a flat,
// greppable record of lifecycle and settlement activity without a
// dedicated event store.
type JournalHandler struct {
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewJournalHandler builds a journal around the given serializer. Register
// the domain event types on the serializer first, unregistered types are
// journaled without a payload.
func NewJournalHandler(serializer *EventSerializer, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{serializer: serializer, logger: logger}
}

// EventTypes returns nil: the journal observes everything.
func (h *JournalHandler) EventTypes() []string {
	return nil
}

// Handle writes one log line per event. Serialization problems degrade to
// a payload-less line rather than failing the dispatch.
func (h *JournalHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", evt.EventID().String()),
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	}

	if !h.serializer.IsRegistered(evt.EventType()) {
		h.logger.Warn("Unregistered event type journaled", fields...)
		return nil
	}

	payload, err := h.serializer.Serialize(evt)
	if err != nil {
		h.logger.Warn("Event payload not serializable", append(fields, zap.Error(err))...)
		return nil
	}

	h.logger.Info("Domain event", append(fields, zap.ByteString("payload", payload))...)
	return nil
}
