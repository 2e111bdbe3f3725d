package funding

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/investment"
)

// SubmitInvestmentRequest carries the data to place an investment
type SubmitInvestmentRequest struct {
	ProjectID uuid.UUID       `json:"project_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note" binding:"omitempty,max=500"`
}

// DecisionRequest carries a lifecycle transition for an investment.
// TargetStatus is one of confirmed, rejected, canceled; ContractRef is
// required for confirmation only.
type DecisionRequest struct {
	TargetStatus string `json:"target_status" binding:"required,oneof=confirmed rejected canceled"`
	ContractRef  string `json:"contract_ref" binding:"omitempty,max=128"`
}

// InvestmentResponse is the outward representation of an investment
type InvestmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	MemberID    uuid.UUID       `json:"member_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	ContractRef string          `json:"contract_ref,omitempty"`
	Note        string          `json:"note,omitempty"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToInvestmentResponse converts a domain investment to its response form
func ToInvestmentResponse(inv *investment.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:          inv.ID,
		ProjectID:   inv.ProjectID,
		MemberID:    inv.MemberID,
		Amount:      inv.Amount,
		Status:      inv.Status.String(),
		ContractRef: inv.ContractRef,
		Note:        inv.Note,
		DecidedAt:   inv.DecidedAt,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
		Version:     inv.Version,
	}
}

// ToInvestmentResponses converts a slice of domain investments
func ToInvestmentResponses(items []investment.Investment) []InvestmentResponse {
	responses := make([]InvestmentResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToInvestmentResponse(&items[i]))
	}
	return responses
}
