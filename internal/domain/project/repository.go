package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terravest/backend/internal/domain/shared"
)

// Repository defines the persistence boundary for projects.
//
// AddFunding is the sole mutation path for the funding total. It must be
// atomic per project: implementations use either a row lock held for the
// read-modify-write or a bounded compare-and-swap retry on the aggregate
// version, failing with CONTENTION when the retry budget is exhausted.
type Repository interface {
	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll finds projects with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)

	// FindByStatus finds projects in a given lifecycle status
	FindByStatus(ctx context.Context, status ProjectStatus, filter shared.Filter) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, p *Project) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *Project) error

	// AddFunding atomically adds delta (positive or negative) to the
	// project's funding total and returns the updated record
	AddFunding(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*Project, error)

	// Delete deletes a project
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts projects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
