package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	projectapp "github.com/terravest/backend/internal/application/project"
	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/interfaces/http/dto"
)

// ProjectHandler handles project lifecycle API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ProjectListRequest represents project list query parameters
// @Description Query parameters for listing projects
type ProjectListRequest struct {
	dto.ListRequest
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED FUNDED CLOSED draft published funded closed"`
	PropertyType  string `form:"property_type" binding:"omitempty,oneof=RESIDENTIAL COMMERCIAL INDUSTRIAL LAND MIXED"`
	CreatedBy     string `form:"created_by" binding:"omitempty,uuid"`
	TargetReached *bool  `form:"target_reached"`
	MinROI        string `form:"min_roi"`
}

// Create godoc
// @Summary      Create a new project
// @Description  Create a new investment project in draft status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body project.CreateProjectRequest true "Project creation request"
// @Success      201 {object} dto.Response{data=project.ProjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req projectapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.projectService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID godoc
// @Summary      Get project by ID
// @Description  Retrieve a project with its funding progress
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	result, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List projects
// @Description  Retrieve a paginated list of projects with optional filters
// @Tags         projects
// @Produce      json
// @Param        status query string false "Status filter" Enums(DRAFT, PUBLISHED, FUNDED, CLOSED)
// @Param        property_type query string false "Property type filter"
// @Param        search query string false "Search in title and location"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]project.ProjectResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	req := ProjectListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var status *project.ProjectStatus
	if req.Status != "" {
		s := project.ProjectStatus(strings.ToUpper(req.Status))
		if !s.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		status = &s
	}

	filter := req.ToFilter()
	if req.PropertyType != "" {
		filter.Filters["property_type"] = req.PropertyType
	}
	if req.CreatedBy != "" {
		filter.Filters["created_by"] = req.CreatedBy
	}
	if req.TargetReached != nil {
		filter.Filters["target_reached"] = *req.TargetReached
	}
	if req.MinROI != "" {
		filter.Filters["min_roi"] = req.MinROI
	}

	page, err := h.projectService.List(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @Summary      Update a project
// @Description  Update project details. Financial fields are immutable once published.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Param        request body project.UpdateProjectRequest true "Project update request"
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req projectapp.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.projectService.Update(c.Request.Context(), caller, projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// Readiness godoc
// @Summary      Check publish readiness
// @Description  Run the publish-readiness checks without changing the project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=project.ReadinessResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id}/readiness [get]
func (h *ProjectHandler) Readiness(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	report, err := h.projectService.Readiness(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Publish godoc
// @Summary      Publish a project
// @Description  Publish a draft project after passing readiness checks. A blocked
// @Description  publication returns 422 with the full readiness report.
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{data=project.ReadinessResponse,error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id}/publish [post]
func (h *ProjectHandler) Publish(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	published, err := h.projectService.Publish(c.Request.Context(), caller, projectID)
	if err != nil {
		var blocked *projectapp.PublishBlockedError
		if errors.As(err, &blocked) {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithData(
				dto.ErrCodePublishBlocked,
				blocked.Error(),
				getRequestID(c),
				projectapp.ToReadinessResponse(blocked.Report),
			))
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, published)
}

// Close godoc
// @Summary      Close a project
// @Description  Close a published or funded project; no further investments are accepted
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id}/close [post]
func (h *ProjectHandler) Close(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	closed, err := h.projectService.Close(c.Request.Context(), caller, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, closed)
}
