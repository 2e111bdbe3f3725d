package event

import (
	"github.com/terravest/backend/internal/domain/investment"
	"github.com/terravest/backend/internal/domain/project"
)

// RegisterAllEvents registers all domain event types with the serializer
// so they can be deserialized by name from stored or relayed payloads.
func RegisterAllEvents(serializer *EventSerializer) {
	// Project lifecycle events
	serializer.Register(project.EventTypeProjectCreated, &project.ProjectCreatedEvent{})
	serializer.Register(project.EventTypeProjectPublished, &project.ProjectPublishedEvent{})
	serializer.Register(project.EventTypeProjectFunded, &project.ProjectFundedEvent{})
	serializer.Register(project.EventTypeProjectClosed, &project.ProjectClosedEvent{})
	serializer.Register(project.EventTypeProjectFundingAdjusted, &project.ProjectFundingAdjustedEvent{})

	// Investment settlement events
	serializer.Register(investment.EventTypeInvestmentPlaced, &investment.InvestmentPlacedEvent{})
	serializer.Register(investment.EventTypeInvestmentConfirmed, &investment.InvestmentConfirmedEvent{})
	serializer.Register(investment.EventTypeInvestmentRejected, &investment.InvestmentRejectedEvent{})
	serializer.Register(investment.EventTypeInvestmentCanceled, &investment.InvestmentCanceledEvent{})
}
