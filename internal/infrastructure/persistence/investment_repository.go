package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terravest/backend/internal/domain/investment"
	"github.com/terravest/backend/internal/domain/shared"
)

// GormInvestmentRepository implements investment.Repository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByID finds an investment by its ID
func (r *GormInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	var inv investment.Investment
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByProject finds investments for a project, optionally narrowed to a status
func (r *GormInvestmentRepository) FindByProject(ctx context.Context, projectID uuid.UUID, status *investment.InvestmentStatus, filter shared.Filter) ([]investment.Investment, error) {
	query := r.db.WithContext(ctx).Model(&investment.Investment{}).Where("project_id = ?", projectID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var investments []investment.Investment
	if err := r.applyFilter(query, filter).Find(&investments).Error; err != nil {
		return nil, err
	}
	return investments, nil
}

// FindByMember finds investments placed by a member, optionally narrowed to a status
func (r *GormInvestmentRepository) FindByMember(ctx context.Context, memberID uuid.UUID, status *investment.InvestmentStatus, filter shared.Filter) ([]investment.Investment, error) {
	query := r.db.WithContext(ctx).Model(&investment.Investment{}).Where("member_id = ?", memberID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var investments []investment.Investment
	if err := r.applyFilter(query, filter).Find(&investments).Error; err != nil {
		return nil, err
	}
	return investments, nil
}

// Create inserts a new pending investment. A partial unique index on
// (project_id, member_id) over pending rows enforces the one-pending
// rule; the violation surfaces here as ErrDuplicatePending.
func (r *GormInvestmentRepository) Create(ctx context.Context, inv *investment.Investment) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return investment.ErrDuplicatePending
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInvestmentRepository) SaveWithLock(ctx context.Context, inv *investment.Investment) error {
	result := r.db.WithContext(ctx).
		Model(inv).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(map[string]interface{}{
			"status":       inv.Status,
			"contract_ref": inv.ContractRef,
			"note":         inv.Note,
			"decided_at":   inv.DecidedAt,
			"version":      inv.Version,
			"updated_at":   inv.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountByProjectAndStatus counts a project's investments in a status
func (r *GormInvestmentRepository) CountByProjectAndStatus(ctx context.Context, projectID uuid.UUID, status investment.InvestmentStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&investment.Investment{}).
		Where("project_id = ? AND status = ?", projectID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormInvestmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "min_amount":
			query = query.Where("amount >= ?", value)
		case "max_amount":
			query = query.Where("amount <= ?", value)
		case "decided":
			if value == true {
				query = query.Where("decided_at IS NOT NULL")
			}
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	// Apply ordering
	orderBy := ValidateSortField(filter.OrderBy, InvestmentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormInvestmentRepository implements investment.Repository
var _ investment.Repository = (*GormInvestmentRepository)(nil)
