package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/shared"
	"github.com/terravest/backend/internal/domain/shared/valueobject"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "DRAFT"
	StatusPublished ProjectStatus = "PUBLISHED"
	StatusFunded    ProjectStatus = "FUNDED"
	StatusClosed    ProjectStatus = "CLOSED"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusFunded, StatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusPublished || target == StatusClosed
	case StatusPublished:
		return target == StatusFunded || target == StatusClosed
	case StatusFunded:
		return target == StatusClosed
	case StatusClosed:
		return false // Terminal state
	}
	return false
}

// PropertyType represents the class of the underlying real-estate asset
type PropertyType string

const (
	PropertyResidential PropertyType = "RESIDENTIAL"
	PropertyCommercial  PropertyType = "COMMERCIAL"
	PropertyIndustrial  PropertyType = "INDUSTRIAL"
	PropertyLand        PropertyType = "LAND"
	PropertyMixed       PropertyType = "MIXED"
)

// IsValid checks if the property type is a known PropertyType
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyResidential, PropertyCommercial, PropertyIndustrial, PropertyLand, PropertyMixed:
		return true
	}
	return false
}

// String returns the string representation of PropertyType
func (p PropertyType) String() string {
	return string(p)
}

// Project represents a real-estate funding opportunity aggregate root.
// It owns the project lifecycle and the funding total; the total is the
// running sum of confirmed investment capital and is only ever adjusted
// through ApplyFundingDelta.
type Project struct {
	shared.OwnedAggregateRoot
	Title             string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	Location          string          `gorm:"type:varchar(200)"`
	PropertyType      PropertyType    `gorm:"type:varchar(20);not null"`
	MinimumInvestment decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TargetAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CurrentAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ExpectedROI       decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"` // annual percentage
	Status            ProjectStatus   `gorm:"type:varchar(20);not null;index"`
	PublishedAt       *time.Time
	FundedAt          *time.Time
	ClosedAt          *time.Time
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project in DRAFT status
func NewProject(createdBy uuid.UUID, title, description, location string, propertyType PropertyType, minimumInvestment, targetAmount valueobject.Money, expectedROI decimal.Decimal) (*Project, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY_TYPE", fmt.Sprintf("Unknown property type %q", propertyType))
	}
	if !minimumInvestment.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Minimum investment must be positive")
	}
	if !targetAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Target amount must be positive")
	}
	if targetAmount.Amount().LessThan(minimumInvestment.Amount()) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Target amount cannot be less than the minimum investment")
	}
	if expectedROI.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ROI", "Expected ROI cannot be negative")
	}

	p := &Project{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Title:              title,
		Description:        description,
		Location:           location,
		PropertyType:       propertyType,
		MinimumInvestment:  minimumInvestment.Amount(),
		TargetAmount:       targetAmount.Amount(),
		CurrentAmount:      decimal.Zero,
		ExpectedROI:        expectedROI,
		Status:             StatusDraft,
	}

	p.AddDomainEvent(NewProjectCreatedEvent(p))

	return p, nil
}

// UpdateDetails updates the core project fields.
// Core fields are frozen once the project leaves DRAFT; attempts to edit
// them afterwards fail with IMMUTABLE_FIELD.
func (p *Project) UpdateDetails(title, description, location string, propertyType PropertyType, minimumInvestment, targetAmount valueobject.Money, expectedROI decimal.Decimal) error {
	if p.Status != StatusDraft {
		return shared.ErrImmutableField
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if !propertyType.IsValid() {
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", fmt.Sprintf("Unknown property type %q", propertyType))
	}
	if !minimumInvestment.IsPositive() || !targetAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Investment amounts must be positive")
	}
	if expectedROI.IsNegative() {
		return shared.NewDomainError("INVALID_ROI", "Expected ROI cannot be negative")
	}

	p.Title = title
	p.Description = description
	p.Location = location
	p.PropertyType = propertyType
	p.MinimumInvestment = minimumInvestment.Amount()
	p.TargetAmount = targetAmount.Amount()
	p.ExpectedROI = expectedROI
	p.UpdatedAt = time.Now()

	return nil
}

// Publish transitions the project from DRAFT to PUBLISHED.
// Readiness validation is the caller's responsibility (see Evaluate); the
// aggregate only enforces the transition table.
func (p *Project) Publish() error {
	if !p.Status.CanTransitionTo(StatusPublished) {
		return shared.ErrIllegalTransition
	}

	now := time.Now()
	p.Status = StatusPublished
	p.PublishedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewProjectPublishedEvent(p))

	return nil
}

// MarkFunded transitions the project to FUNDED once the target is reached
func (p *Project) MarkFunded() error {
	if !p.Status.CanTransitionTo(StatusFunded) {
		return shared.ErrIllegalTransition
	}
	if p.CurrentAmount.LessThan(p.TargetAmount) {
		return shared.NewDomainError("TARGET_NOT_REACHED", "Cannot mark project funded before the target amount is reached")
	}

	now := time.Now()
	p.Status = StatusFunded
	p.FundedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewProjectFundedEvent(p))

	return nil
}

// Close closes the project administratively
func (p *Project) Close() error {
	if !p.Status.CanTransitionTo(StatusClosed) {
		return shared.ErrIllegalTransition
	}

	now := time.Now()
	p.Status = StatusClosed
	p.ClosedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewProjectClosedEvent(p))

	return nil
}

// ApplyFundingDelta adjusts the funding total by delta (positive or negative).
// The resulting total may exceed the target by at most overfundRatio
// (e.g. 0.20 for 20%); the total is never silently capped, the delta is
// rejected instead. A negative result is always rejected.
func (p *Project) ApplyFundingDelta(delta decimal.Decimal, overfundRatio decimal.Decimal) error {
	next := p.CurrentAmount.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Funding total cannot become negative")
	}

	ceiling := p.TargetAmount.Add(p.TargetAmount.Mul(overfundRatio))
	if next.GreaterThan(ceiling) {
		return shared.NewDomainError("OVERFUNDED", "Funding total would exceed the allowed ceiling above the target amount")
	}

	p.CurrentAmount = next
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProjectFundingAdjustedEvent(p, delta))

	return nil
}

// TargetReached reports whether the funding total has reached the target
func (p *Project) TargetReached() bool {
	return p.CurrentAmount.GreaterThanOrEqual(p.TargetAmount)
}

// FundingProgress returns the funded fraction of the target as a percentage
func (p *Project) FundingProgress() decimal.Decimal {
	if p.TargetAmount.IsZero() {
		return decimal.Zero
	}
	return p.CurrentAmount.Div(p.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// MinimumInvestmentMoney returns the minimum investment as Money
func (p *Project) MinimumInvestmentMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.MinimumInvestment)
}

// TargetAmountMoney returns the target amount as Money
func (p *Project) TargetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.TargetAmount)
}

// CurrentAmountMoney returns the funding total as Money
func (p *Project) CurrentAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.CurrentAmount)
}

// IsDraft returns true if the project is in draft status
func (p *Project) IsDraft() bool {
	return p.Status == StatusDraft
}

// IsPublished returns true if the project is published
func (p *Project) IsPublished() bool {
	return p.Status == StatusPublished
}

// IsFunded returns true if the project is funded
func (p *Project) IsFunded() bool {
	return p.Status == StatusFunded
}

// IsClosed returns true if the project is closed
func (p *Project) IsClosed() bool {
	return p.Status == StatusClosed
}

// AcceptsInvestments reports whether new investments may target this project
func (p *Project) AcceptsInvestments() bool {
	return p.Status == StatusPublished
}
