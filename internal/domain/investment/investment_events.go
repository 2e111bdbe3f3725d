package investment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvestment = "Investment"

// Event type constants
const (
	EventTypeInvestmentPlaced    = "InvestmentPlaced"
	EventTypeInvestmentConfirmed = "InvestmentConfirmed"
	EventTypeInvestmentRejected  = "InvestmentRejected"
	EventTypeInvestmentCanceled  = "InvestmentCanceled"
)

// InvestmentPlacedEvent is raised when a member places a new investment
type InvestmentPlacedEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID       `json:"investment_id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	MemberID     uuid.UUID       `json:"member_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewInvestmentPlacedEvent creates a new InvestmentPlacedEvent
func NewInvestmentPlacedEvent(inv *Investment) *InvestmentPlacedEvent {
	return &InvestmentPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentPlaced, AggregateTypeInvestment, inv.ID),
		InvestmentID:    inv.ID,
		ProjectID:       inv.ProjectID,
		MemberID:        inv.MemberID,
		Amount:          inv.Amount,
	}
}

// InvestmentConfirmedEvent is raised when a manager confirms an investment.
// This event accompanies the funding total adjustment on the project.
type InvestmentConfirmedEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID       `json:"investment_id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	MemberID     uuid.UUID       `json:"member_id"`
	Amount       decimal.Decimal `json:"amount"`
	ContractRef  string          `json:"contract_ref,omitempty"`
}

// NewInvestmentConfirmedEvent creates a new InvestmentConfirmedEvent
func NewInvestmentConfirmedEvent(inv *Investment) *InvestmentConfirmedEvent {
	return &InvestmentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentConfirmed, AggregateTypeInvestment, inv.ID),
		InvestmentID:    inv.ID,
		ProjectID:       inv.ProjectID,
		MemberID:        inv.MemberID,
		Amount:          inv.Amount,
		ContractRef:     inv.ContractRef,
	}
}

// InvestmentRejectedEvent is raised when a manager rejects an investment
type InvestmentRejectedEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID `json:"investment_id"`
	ProjectID    uuid.UUID `json:"project_id"`
	MemberID     uuid.UUID `json:"member_id"`
}

// NewInvestmentRejectedEvent creates a new InvestmentRejectedEvent
func NewInvestmentRejectedEvent(inv *Investment) *InvestmentRejectedEvent {
	return &InvestmentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentRejected, AggregateTypeInvestment, inv.ID),
		InvestmentID:    inv.ID,
		ProjectID:       inv.ProjectID,
		MemberID:        inv.MemberID,
	}
}

// InvestmentCanceledEvent is raised when the owning member withdraws a
// pending investment
type InvestmentCanceledEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID `json:"investment_id"`
	ProjectID    uuid.UUID `json:"project_id"`
	MemberID     uuid.UUID `json:"member_id"`
}

// NewInvestmentCanceledEvent creates a new InvestmentCanceledEvent
func NewInvestmentCanceledEvent(inv *Investment) *InvestmentCanceledEvent {
	return &InvestmentCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentCanceled, AggregateTypeInvestment, inv.ID),
		InvestmentID:    inv.ID,
		ProjectID:       inv.ProjectID,
		MemberID:        inv.MemberID,
	}
}
