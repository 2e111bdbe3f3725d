package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/domain/shared/valueobject"
)

// CreateProjectRequest carries the data to create a draft project
type CreateProjectRequest struct {
	Title             string          `json:"title" binding:"required,max=200"`
	Description       string          `json:"description" binding:"omitempty,max=5000"`
	Location          string          `json:"location" binding:"omitempty,max=200"`
	PropertyType      string          `json:"property_type" binding:"required,oneof=RESIDENTIAL COMMERCIAL INDUSTRIAL LAND MIXED"`
	MinimumInvestment decimal.Decimal `json:"minimum_investment" binding:"required"`
	TargetAmount      decimal.Decimal `json:"target_amount" binding:"required"`
	ExpectedROI       decimal.Decimal `json:"expected_roi"`
}

func (r CreateProjectRequest) toDomain(createdBy uuid.UUID) (*project.Project, error) {
	return project.NewProject(
		createdBy,
		r.Title,
		r.Description,
		r.Location,
		project.PropertyType(r.PropertyType),
		valueobject.NewMoneyUSD(r.MinimumInvestment),
		valueobject.NewMoneyUSD(r.TargetAmount),
		r.ExpectedROI,
	)
}

// UpdateProjectRequest carries the data to update a draft project
type UpdateProjectRequest struct {
	Title             string          `json:"title" binding:"required,max=200"`
	Description       string          `json:"description" binding:"omitempty,max=5000"`
	Location          string          `json:"location" binding:"omitempty,max=200"`
	PropertyType      string          `json:"property_type" binding:"required,oneof=RESIDENTIAL COMMERCIAL INDUSTRIAL LAND MIXED"`
	MinimumInvestment decimal.Decimal `json:"minimum_investment" binding:"required"`
	TargetAmount      decimal.Decimal `json:"target_amount" binding:"required"`
	ExpectedROI       decimal.Decimal `json:"expected_roi"`
}

func (r UpdateProjectRequest) applyTo(p *project.Project) error {
	return p.UpdateDetails(
		r.Title,
		r.Description,
		r.Location,
		project.PropertyType(r.PropertyType),
		valueobject.NewMoneyUSD(r.MinimumInvestment),
		valueobject.NewMoneyUSD(r.TargetAmount),
		r.ExpectedROI,
	)
}

// ProjectResponse is the outward representation of a project
type ProjectResponse struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Location          string          `json:"location"`
	PropertyType      string          `json:"property_type"`
	MinimumInvestment decimal.Decimal `json:"minimum_investment"`
	TargetAmount      decimal.Decimal `json:"target_amount"`
	CurrentAmount     decimal.Decimal `json:"current_amount"`
	FundingProgress   decimal.Decimal `json:"funding_progress"`
	ExpectedROI       decimal.Decimal `json:"expected_roi"`
	Status            string          `json:"status"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	PublishedAt       *time.Time      `json:"published_at,omitempty"`
	FundedAt          *time.Time      `json:"funded_at,omitempty"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToProjectResponse converts a domain project to its response form
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Location:          p.Location,
		PropertyType:      p.PropertyType.String(),
		MinimumInvestment: p.MinimumInvestment,
		TargetAmount:      p.TargetAmount,
		CurrentAmount:     p.CurrentAmount,
		FundingProgress:   p.FundingProgress(),
		ExpectedROI:       p.ExpectedROI,
		Status:            p.Status.String(),
		CreatedBy:         p.CreatedBy,
		PublishedAt:       p.PublishedAt,
		FundedAt:          p.FundedAt,
		ClosedAt:          p.ClosedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// ToProjectResponses converts a slice of domain projects
func ToProjectResponses(items []project.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToProjectResponse(&items[i]))
	}
	return responses
}

// CheckResponse is one readiness check result
type CheckResponse struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Passed   bool   `json:"passed"`
	Hint     string `json:"hint,omitempty"`
}

// ReadinessResponse is the outward form of a publish-readiness report
type ReadinessResponse struct {
	CanPublish bool            `json:"can_publish"`
	Checks     []CheckResponse `json:"checks"`
}

// ToReadinessResponse converts a readiness report to its response form
func ToReadinessResponse(report project.Report) ReadinessResponse {
	checks := make([]CheckResponse, 0, len(report.Checks))
	for _, c := range report.Checks {
		checks = append(checks, CheckResponse{
			Name:     c.Name,
			Severity: string(c.Severity),
			Passed:   c.Passed,
			Hint:     c.Hint,
		})
	}
	return ReadinessResponse{
		CanPublish: report.CanPublish(),
		Checks:     checks,
	}
}
