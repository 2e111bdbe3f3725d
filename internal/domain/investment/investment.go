package investment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/shared"
	"github.com/terravest/backend/internal/domain/shared/valueobject"
)

// InvestmentStatus represents the status of an investment
type InvestmentStatus string

const (
	StatusPending   InvestmentStatus = "PENDING"
	StatusConfirmed InvestmentStatus = "CONFIRMED"
	StatusRejected  InvestmentStatus = "REJECTED"
	StatusCanceled  InvestmentStatus = "CANCELED"
)

// IsValid checks if the status is a valid InvestmentStatus
func (s InvestmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of InvestmentStatus
func (s InvestmentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions
func (s InvestmentStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusRejected || s == StatusCanceled
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvestmentStatus) CanTransitionTo(target InvestmentStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusRejected || target == StatusCanceled
	case StatusConfirmed, StatusRejected, StatusCanceled:
		return false // Terminal states
	}
	return false
}

// Investment represents a member's monetary commitment against a project.
// The amount is fixed at creation; only the status (and, on confirmation,
// the contract reference) change afterwards.
type Investment struct {
	shared.BaseAggregateRoot
	ProjectID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	MemberID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Status      InvestmentStatus `gorm:"type:varchar(20);not null;index"`
	ContractRef string           `gorm:"type:varchar(128)"`
	Note        string           `gorm:"type:varchar(500)"`
	DecidedAt   *time.Time
}

// TableName returns the table name for GORM
func (Investment) TableName() string {
	return "investments"
}

// NewInvestment creates a new investment in PENDING status.
// Validation against the target project (published status, minimum
// investment) is the ledger service's job; the aggregate only rejects
// non-positive amounts.
func NewInvestment(projectID, memberID uuid.UUID, amount valueobject.Money, note string) (*Investment, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Investment amount must be positive")
	}

	inv := &Investment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		MemberID:          memberID,
		Amount:            amount.Amount(),
		Status:            StatusPending,
		Note:              note,
	}

	inv.AddDomainEvent(NewInvestmentPlacedEvent(inv))

	return inv, nil
}

// TransitionTo applies the requested status transition on behalf of the
// caller, enforcing both the transition table and role authority.
// A default-fail switch keeps unknown targets from slipping through.
func (i *Investment) TransitionTo(caller shared.Caller, target InvestmentStatus, contractRef string) error {
	switch target {
	case StatusConfirmed:
		return i.Confirm(caller, contractRef)
	case StatusRejected:
		return i.Reject(caller)
	case StatusCanceled:
		return i.Cancel(caller)
	default:
		return shared.ErrIllegalTransition
	}
}

// Confirm transitions a pending investment to CONFIRMED.
// Manager/admin only; the contract reference is recorded here and nowhere
// else. The funding aggregate adjustment is the settlement coordinator's
// job, not the aggregate's.
func (i *Investment) Confirm(caller shared.Caller, contractRef string) error {
	if !caller.Role.CanDecide() {
		return shared.ErrForbidden
	}
	if !i.Status.CanTransitionTo(StatusConfirmed) {
		return shared.ErrIllegalTransition
	}

	now := time.Now()
	i.Status = StatusConfirmed
	i.ContractRef = contractRef
	i.DecidedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvestmentConfirmedEvent(i))

	return nil
}

// Reject transitions a pending investment to REJECTED. Manager/admin only.
func (i *Investment) Reject(caller shared.Caller) error {
	if !caller.Role.CanDecide() {
		return shared.ErrForbidden
	}
	if !i.Status.CanTransitionTo(StatusRejected) {
		return shared.ErrIllegalTransition
	}

	now := time.Now()
	i.Status = StatusRejected
	i.DecidedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvestmentRejectedEvent(i))

	return nil
}

// Cancel transitions a pending investment to CANCELED.
// Only the owning member may cancel, and only while pending.
func (i *Investment) Cancel(caller shared.Caller) error {
	if caller.ID != i.MemberID {
		return shared.ErrForbidden
	}
	if !i.Status.CanTransitionTo(StatusCanceled) {
		return shared.ErrIllegalTransition
	}

	now := time.Now()
	i.Status = StatusCanceled
	i.DecidedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvestmentCanceledEvent(i))

	return nil
}

// AmountMoney returns the investment amount as Money
func (i *Investment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Amount)
}

// IsPending returns true if the investment is pending a decision
func (i *Investment) IsPending() bool {
	return i.Status == StatusPending
}

// IsConfirmed returns true if the investment is confirmed
func (i *Investment) IsConfirmed() bool {
	return i.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are permitted
func (i *Investment) IsTerminal() bool {
	return i.Status.IsTerminal()
}
