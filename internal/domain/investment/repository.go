package investment

import (
	"context"

	"github.com/google/uuid"
	"github.com/terravest/backend/internal/domain/shared"
)

// ErrDuplicatePending is returned when a member already holds a pending
// investment on the same project. Uniqueness is enforced by a partial
// unique index on (project_id, member_id) for pending rows, not by a
// list-and-filter scan, so concurrent submissions cannot both succeed.
var ErrDuplicatePending = shared.NewDomainError("DUPLICATE_PENDING_INVESTMENT", "Member already has a pending investment on this project")

// Repository defines the persistence boundary for investments
type Repository interface {
	// FindByID finds an investment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// FindByProject finds investments for a project, optionally narrowed
	// to a single status
	FindByProject(ctx context.Context, projectID uuid.UUID, status *InvestmentStatus, filter shared.Filter) ([]Investment, error)

	// FindByMember finds investments placed by a member, optionally
	// narrowed to a single status
	FindByMember(ctx context.Context, memberID uuid.UUID, status *InvestmentStatus, filter shared.Filter) ([]Investment, error)

	// Create inserts a new pending investment; returns ErrDuplicatePending
	// when the member already holds a pending investment on the project
	Create(ctx context.Context, inv *Investment) error

	// SaveWithLock saves with optimistic locking (version check); fails
	// with CONCURRENCY_CONFLICT when the row changed since it was read
	SaveWithLock(ctx context.Context, inv *Investment) error

	// CountByProjectAndStatus counts a project's investments in a status
	CountByProjectAndStatus(ctx context.Context, projectID uuid.UUID, status InvestmentStatus) (int64, error)
}
