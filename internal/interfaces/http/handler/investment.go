package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terravest/backend/internal/application/funding"
	"github.com/terravest/backend/internal/domain/investment"
	"github.com/terravest/backend/internal/interfaces/http/dto"
)

// InvestmentHandler handles investment settlement API endpoints
type InvestmentHandler struct {
	BaseHandler
	settlementService *funding.SettlementService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(settlementService *funding.SettlementService) *InvestmentHandler {
	return &InvestmentHandler{
		settlementService: settlementService,
	}
}

// InvestmentListRequest represents investment list query parameters
// @Description Query parameters for listing investments
type InvestmentListRequest struct {
	dto.ListRequest
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	MemberID  string `form:"member_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED REJECTED CANCELED pending confirmed rejected canceled"`
}

// Submit godoc
// @Summary      Submit an investment
// @Description  Place a pending investment on a published project
// @Tags         investments
// @Accept       json
// @Produce      json
// @Param        request body funding.SubmitInvestmentRequest true "Investment submission"
// @Success      201 {object} dto.Response{data=funding.InvestmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /investments [post]
func (h *InvestmentHandler) Submit(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req funding.SubmitInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	placed, err := h.settlementService.SubmitInvestment(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, placed)
}

// Decide godoc
// @Summary      Decide on an investment
// @Description  Confirm, reject, or cancel a pending investment. Confirmation
// @Description  requires a contract reference and settles the project funding total.
// @Tags         investments
// @Accept       json
// @Produce      json
// @Param        id path string true "Investment ID" format(uuid)
// @Param        request body funding.DecisionRequest true "Decision request"
// @Success      200 {object} dto.Response{data=funding.InvestmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /investments/{id}/status [patch]
func (h *InvestmentHandler) Decide(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investment ID format")
		return
	}

	var req funding.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	target := investment.InvestmentStatus(strings.ToUpper(req.TargetStatus))
	decided, err := h.settlementService.Decide(c.Request.Context(), caller, investmentID, target, req.ContractRef)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, decided)
}

// GetByID godoc
// @Summary      Get investment by ID
// @Description  Retrieve a single investment. Investors see only their own records.
// @Tags         investments
// @Produce      json
// @Param        id path string true "Investment ID" format(uuid)
// @Success      200 {object} dto.Response{data=funding.InvestmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /investments/{id} [get]
func (h *InvestmentHandler) GetByID(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investment ID format")
		return
	}

	result, err := h.settlementService.GetByID(c.Request.Context(), caller, investmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List investments
// @Description  List investments by project or by member. Exactly one of
// @Description  project_id or member_id must be provided.
// @Tags         investments
// @Produce      json
// @Param        project_id query string false "Project ID" format(uuid)
// @Param        member_id query string false "Member ID" format(uuid)
// @Param        status query string false "Status filter" Enums(PENDING, CONFIRMED, REJECTED, CANCELED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]funding.InvestmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /investments [get]
func (h *InvestmentHandler) List(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req := InvestmentListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if (req.ProjectID == "") == (req.MemberID == "") {
		h.BadRequest(c, "Exactly one of project_id or member_id is required")
		return
	}

	var status *investment.InvestmentStatus
	if req.Status != "" {
		s := investment.InvestmentStatus(strings.ToUpper(req.Status))
		if !s.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		status = &s
	}

	filter := req.ToFilter()

	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			h.BadRequest(c, "Invalid project ID format")
			return
		}
		items, err := h.settlementService.ListForProject(c.Request.Context(), caller, projectID, status, filter)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, items)
		return
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}
	items, err := h.settlementService.ListForMember(c.Request.Context(), caller, memberID, status, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}
