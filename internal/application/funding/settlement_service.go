package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/terravest/backend/internal/domain/investment"
	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/domain/shared"
	"github.com/terravest/backend/internal/domain/shared/valueobject"
)

// Repositories bundles the stores a settlement unit of work touches
type Repositories struct {
	Projects    project.Repository
	Investments investment.Repository
}

// TransactionManager executes a function against transactional
// repositories. If fn returns an error the whole unit of work rolls
// back; a ledger transition and its funding delta can never be
// persisted separately.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// SettlementService is the single entry point from the request layer for
// the investment lifecycle. It coordinates ledger writes and project
// funding updates as one unit of consistency.
type SettlementService struct {
	repos          Repositories
	tx             TransactionManager
	eventPublisher shared.EventPublisher
	opTimeout      time.Duration
}

// NewSettlementService creates a new SettlementService.
// opTimeout bounds every store operation. The overfund ceiling lives in
// the project repository, which applies it inside the funding update.
func NewSettlementService(repos Repositories, tx TransactionManager, opTimeout time.Duration) *SettlementService {
	return &SettlementService{
		repos:     repos,
		tx:        tx,
		opTimeout: opTimeout,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SubmitInvestment places a new pending investment against a published
// project. The funding total is not touched: the aggregate reflects
// confirmed capital only.
func (s *SettlementService) SubmitInvestment(ctx context.Context, caller shared.Caller, req SubmitInvestmentRequest) (*InvestmentResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	proj, err := s.repos.Projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !proj.AcceptsInvestments() {
		return nil, shared.NewDomainError("PROJECT_NOT_PUBLISHED", "Investments are only accepted on published projects")
	}

	amount := valueobject.NewMoneyUSD(req.Amount)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Investment amount must be positive")
	}
	if req.Amount.LessThan(proj.MinimumInvestment) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Investment amount is below the project minimum")
	}

	inv, err := investment.NewInvestment(req.ProjectID, caller.ID, amount, req.Note)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Investments.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	response := ToInvestmentResponse(inv)
	return &response, nil
}

// Decide applies a status transition to an investment on behalf of the
// caller. For the pending->confirmed edge the project's funding total is
// adjusted in the same transaction; if either write fails, both roll
// back. Rejection and cancellation carry no funding delta because
// pending capital was never counted.
func (s *SettlementService) Decide(ctx context.Context, caller shared.Caller, investmentID uuid.UUID, target investment.InvestmentStatus, contractRef string) (*InvestmentResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		inv    *investment.Investment
		events []shared.DomainEvent
	)

	err := s.tx.Execute(ctx, func(repos Repositories) error {
		var err error
		inv, err = repos.Investments.FindByID(ctx, investmentID)
		if err != nil {
			return err
		}

		if err := inv.TransitionTo(caller, target, contractRef); err != nil {
			return err
		}

		inv.IncrementVersion()
		if err := repos.Investments.SaveWithLock(ctx, inv); err != nil {
			return err
		}
		events = append(events, inv.GetDomainEvents()...)

		if target == investment.StatusConfirmed {
			proj, err := repos.Projects.AddFunding(ctx, inv.ProjectID, inv.Amount)
			if err != nil {
				return err
			}
			events = append(events, proj.GetDomainEvents()...)

			if proj.IsPublished() && proj.TargetReached() {
				if err := proj.MarkFunded(); err != nil {
					return err
				}
				proj.IncrementVersion()
				if err := repos.Projects.SaveWithLock(ctx, proj); err != nil {
					return err
				}
				events = append(events, proj.GetDomainEvents()...)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	inv.ClearDomainEvents()

	response := ToInvestmentResponse(inv)
	return &response, nil
}

// GetByID retrieves a single investment. Members see only their own
// records; managers and admins see all.
func (s *SettlementService) GetByID(ctx context.Context, caller shared.Caller, investmentID uuid.UUID) (*InvestmentResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	inv, err := s.repos.Investments.FindByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if !caller.Role.CanDecide() && inv.MemberID != caller.ID {
		return nil, shared.ErrForbidden
	}

	response := ToInvestmentResponse(inv)
	return &response, nil
}

// ListForProject lists a project's investments. Read-only projection.
func (s *SettlementService) ListForProject(ctx context.Context, caller shared.Caller, projectID uuid.UUID, status *investment.InvestmentStatus, filter shared.Filter) ([]InvestmentResponse, error) {
	if !caller.Role.CanDecide() {
		return nil, shared.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	items, err := s.repos.Investments.FindByProject(ctx, projectID, status, filter)
	if err != nil {
		return nil, err
	}
	return ToInvestmentResponses(items), nil
}

// ListForMember lists a member's investments. Members may only list
// their own; managers and admins may list anyone's.
func (s *SettlementService) ListForMember(ctx context.Context, caller shared.Caller, memberID uuid.UUID, status *investment.InvestmentStatus, filter shared.Filter) ([]InvestmentResponse, error) {
	if !caller.Role.CanDecide() && caller.ID != memberID {
		return nil, shared.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	items, err := s.repos.Investments.FindByMember(ctx, memberID, status, filter)
	if err != nil {
		return nil, err
	}
	return ToInvestmentResponses(items), nil
}

func (s *SettlementService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *SettlementService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Event delivery is best-effort; settlement state is already durable
	_ = s.eventPublisher.Publish(ctx, events...)
}
