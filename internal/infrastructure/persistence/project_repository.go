package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/domain/shared"
)

// GormProjectRepository implements project.Repository using GORM
type GormProjectRepository struct {
	db            *gorm.DB
	overfundRatio decimal.Decimal
	maxRetries    int
}

// NewGormProjectRepository creates a new GormProjectRepository. The
// overfund ratio bounds how far AddFunding may push the total above the
// target; maxRetries bounds the compare-and-swap loop under contention.
func NewGormProjectRepository(db *gorm.DB, overfundRatio decimal.Decimal, maxRetries int) *GormProjectRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &GormProjectRepository{db: db, overfundRatio: overfundRatio, maxRetries: maxRetries}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var p project.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds projects with filtering and pagination
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	var projects []project.Project
	query := r.applyFilter(r.db.WithContext(ctx).Model(&project.Project{}), filter)

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByStatus finds projects in a given lifecycle status
func (r *GormProjectRepository) FindByStatus(ctx context.Context, status project.ProjectStatus, filter shared.Filter) ([]project.Project, error) {
	var projects []project.Project
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&project.Project{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProjectRepository) SaveWithLock(ctx context.Context, p *project.Project) error {
	result := r.db.WithContext(ctx).
		Model(p).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"title":              p.Title,
			"description":        p.Description,
			"location":           p.Location,
			"property_type":      p.PropertyType,
			"minimum_investment": p.MinimumInvestment,
			"target_amount":      p.TargetAmount,
			"current_amount":     p.CurrentAmount,
			"expected_roi":       p.ExpectedROI,
			"status":             p.Status,
			"published_at":       p.PublishedAt,
			"funded_at":          p.FundedAt,
			"closed_at":          p.ClosedAt,
			"version":            p.Version,
			"updated_at":         p.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// AddFunding atomically adjusts the project's funding total by delta.
// The adjustment is a compare-and-swap on the version column: read,
// apply the delta through the domain rules, write back guarded by the
// version seen at read time. Lost races retry up to maxRetries before
// reporting contention. Domain rejections (overfunded, negative total)
// are returned as-is and never retried.
func (r *GormProjectRepository) AddFunding(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*project.Project, error) {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		p, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := p.ApplyFundingDelta(delta, r.overfundRatio); err != nil {
			return nil, err
		}
		p.IncrementVersion()

		result := r.db.WithContext(ctx).
			Model(p).
			Where("id = ? AND version = ?", p.ID, p.Version-1).
			Updates(map[string]interface{}{
				"current_amount": p.CurrentAmount,
				"version":        p.Version,
				"updated_at":     p.UpdatedAt,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected > 0 {
			return p, nil
		}
		// Lost the race; reload and try again
	}

	return nil, shared.ErrContention
}

// Delete deletes a project
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&project.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&project.Project{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	// Apply ordering
	orderBy := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProjectRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("title ILIKE ? OR location ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_type":
			query = query.Where("property_type = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "target_reached":
			if value == true {
				query = query.Where("current_amount >= target_amount")
			}
		case "min_roi":
			query = query.Where("expected_roi >= ?", value)
		}
	}

	return query
}

// Ensure GormProjectRepository implements project.Repository
var _ project.Repository = (*GormProjectRepository)(nil)
