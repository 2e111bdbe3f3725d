package funding

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/terravest/backend/internal/domain/investment"
	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/domain/shared"
)

// MetricsRecorder receives funding activity for metric export. It is
// satisfied by the telemetry layer; the indirection keeps this package
// free of a direct OpenTelemetry dependency.
type MetricsRecorder interface {
	RecordInvestmentSubmitted(ctx context.Context, propertyType string)
	RecordInvestmentDecided(ctx context.Context, outcome string)
	RecordConfirmedAmount(ctx context.Context, propertyType string, amount decimal.Decimal)
	RecordProjectPublished(ctx context.Context, propertyType string)
}

// MetricsHandler subscribes to funding lifecycle events and records
// them as business metrics. Metric failures never propagate back into
// the settlement path; the handler logs and swallows lookup errors.
type MetricsHandler struct {
	recorder MetricsRecorder
	projects project.Repository
	logger   *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(recorder MetricsRecorder, projects project.Repository, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		recorder: recorder,
		projects: projects,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		investment.EventTypeInvestmentPlaced,
		investment.EventTypeInvestmentConfirmed,
		investment.EventTypeInvestmentRejected,
		investment.EventTypeInvestmentCanceled,
		project.EventTypeProjectPublished,
	}
}

// Handle records the metric matching the event type.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *investment.InvestmentPlacedEvent:
		h.recorder.RecordInvestmentSubmitted(ctx, h.propertyType(ctx, e.ProjectID))
	case *investment.InvestmentConfirmedEvent:
		h.recorder.RecordInvestmentDecided(ctx, "confirmed")
		h.recorder.RecordConfirmedAmount(ctx, h.propertyType(ctx, e.ProjectID), e.Amount)
	case *investment.InvestmentRejectedEvent:
		h.recorder.RecordInvestmentDecided(ctx, "rejected")
	case *investment.InvestmentCanceledEvent:
		h.recorder.RecordInvestmentDecided(ctx, "canceled")
	case *project.ProjectPublishedEvent:
		h.recorder.RecordProjectPublished(ctx, h.propertyType(ctx, e.ProjectID))
	}
	return nil
}

// propertyType resolves the property type label for a project. Lookup
// failures degrade to an "unknown" label rather than failing the event.
func (h *MetricsHandler) propertyType(ctx context.Context, projectID uuid.UUID) string {
	p, err := h.projects.FindByID(ctx, projectID)
	if err != nil {
		if h.logger != nil {
			h.logger.Debug("Project lookup for metric label failed",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		}
		return "unknown"
	}
	return p.PropertyType.String()
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
