package project

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProject = "Project"

// Event type constants
const (
	EventTypeProjectCreated         = "ProjectCreated"
	EventTypeProjectPublished       = "ProjectPublished"
	EventTypeProjectFunded          = "ProjectFunded"
	EventTypeProjectClosed          = "ProjectClosed"
	EventTypeProjectFundingAdjusted = "ProjectFundingAdjusted"
)

// ProjectCreatedEvent is raised when a new project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID    uuid.UUID       `json:"project_id"`
	Title        string          `json:"title"`
	PropertyType PropertyType    `json:"property_type"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	CreatedBy    uuid.UUID       `json:"created_by"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Title:           p.Title,
		PropertyType:    p.PropertyType,
		TargetAmount:    p.TargetAmount,
		CreatedBy:       p.CreatedBy,
	}
}

// ProjectPublishedEvent is raised when a project passes readiness validation
// and becomes open for investments
type ProjectPublishedEvent struct {
	shared.BaseDomainEvent
	ProjectID         uuid.UUID       `json:"project_id"`
	Title             string          `json:"title"`
	MinimumInvestment decimal.Decimal `json:"minimum_investment"`
	TargetAmount      decimal.Decimal `json:"target_amount"`
}

// NewProjectPublishedEvent creates a new ProjectPublishedEvent
func NewProjectPublishedEvent(p *Project) *ProjectPublishedEvent {
	return &ProjectPublishedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeProjectPublished, AggregateTypeProject, p.ID),
		ProjectID:         p.ID,
		Title:             p.Title,
		MinimumInvestment: p.MinimumInvestment,
		TargetAmount:      p.TargetAmount,
	}
}

// ProjectFundedEvent is raised when the funding total reaches the target
type ProjectFundedEvent struct {
	shared.BaseDomainEvent
	ProjectID     uuid.UUID       `json:"project_id"`
	Title         string          `json:"title"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
}

// NewProjectFundedEvent creates a new ProjectFundedEvent
func NewProjectFundedEvent(p *Project) *ProjectFundedEvent {
	return &ProjectFundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectFunded, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Title:           p.Title,
		CurrentAmount:   p.CurrentAmount,
		TargetAmount:    p.TargetAmount,
	}
}

// ProjectClosedEvent is raised when a project is closed administratively
type ProjectClosedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
}

// NewProjectClosedEvent creates a new ProjectClosedEvent
func NewProjectClosedEvent(p *Project) *ProjectClosedEvent {
	return &ProjectClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectClosed, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Title:           p.Title,
	}
}

// ProjectFundingAdjustedEvent is raised when the funding total changes
type ProjectFundingAdjustedEvent struct {
	shared.BaseDomainEvent
	ProjectID     uuid.UUID       `json:"project_id"`
	Delta         decimal.Decimal `json:"delta"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
}

// NewProjectFundingAdjustedEvent creates a new ProjectFundingAdjustedEvent
func NewProjectFundingAdjustedEvent(p *Project, delta decimal.Decimal) *ProjectFundingAdjustedEvent {
	return &ProjectFundingAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectFundingAdjusted, AggregateTypeProject, p.ID),
		ProjectID:       p.ID,
		Delta:           delta,
		CurrentAmount:   p.CurrentAmount,
	}
}
