package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/terravest/backend/internal/domain/document"
	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/domain/shared"
)

// PublishBlockedError carries the readiness report that stopped a
// publish attempt. The transport layer renders the failed checks so the
// partner knows exactly what to fix.
type PublishBlockedError struct {
	Report project.Report
}

func (e *PublishBlockedError) Error() string {
	return "project is not ready to publish"
}

// Code returns the stable error code for transport mapping
func (e *PublishBlockedError) Code() string {
	return "PUBLISH_BLOCKED"
}

// ProjectService handles project lifecycle use cases
type ProjectService struct {
	projectRepo    project.Repository
	documents      document.Registry
	eventPublisher shared.EventPublisher
	opTimeout      time.Duration
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.Repository, documents document.Registry, opTimeout time.Duration) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		documents:   documents,
		opTimeout:   opTimeout,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProjectService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft project
func (s *ProjectService) Create(ctx context.Context, caller shared.Caller, req CreateProjectRequest) (*ProjectResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := req.toDomain(caller.ID)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()

	response := ToProjectResponse(p)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProjectResponse(p)
	return &response, nil
}

// List retrieves projects with optional status filtering and pagination
func (s *ProjectService) List(ctx context.Context, status *project.ProjectStatus, filter shared.Filter) (*shared.Paginated[ProjectResponse], error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		items []project.Project
		err   error
	)
	if status != nil {
		items, err = s.projectRepo.FindByStatus(ctx, *status, filter)
	} else {
		items, err = s.projectRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToProjectResponses(items), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes a draft project's details. Published and later projects
// are immutable.
func (s *ProjectService) Update(ctx context.Context, caller shared.Caller, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.applyTo(p); err != nil {
		return nil, err
	}

	p.IncrementVersion()
	if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	response := ToProjectResponse(p)
	return &response, nil
}

// Readiness evaluates a project's publish readiness without mutating it
func (s *ProjectService) Readiness(ctx context.Context, id uuid.UUID) (*ReadinessResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	report := project.Evaluate(p, docs)
	response := ToReadinessResponse(report)
	return &response, nil
}

// Publish moves a draft project to published after the readiness gate.
// A failed gate returns PublishBlockedError with the full report;
// recommended checks never block.
func (s *ProjectService) Publish(ctx context.Context, caller shared.Caller, id uuid.UUID) (*ProjectResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	report := project.Evaluate(p, docs)
	if !report.CanPublish() {
		return nil, &PublishBlockedError{Report: report}
	}

	if err := p.Publish(); err != nil {
		return nil, err
	}

	p.IncrementVersion()
	if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()

	response := ToProjectResponse(p)
	return &response, nil
}

// Close terminates a project from any live status
func (s *ProjectService) Close(ctx context.Context, caller shared.Caller, id uuid.UUID) (*ProjectResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Close(); err != nil {
		return nil, err
	}

	p.IncrementVersion()
	if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()

	response := ToProjectResponse(p)
	return &response, nil
}

func (s *ProjectService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *ProjectService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
