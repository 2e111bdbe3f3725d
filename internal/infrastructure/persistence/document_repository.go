package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terravest/backend/internal/domain/document"
	"github.com/terravest/backend/internal/domain/shared"
)

// GormDocumentRegistry implements document.Registry using GORM
type GormDocumentRegistry struct {
	db *gorm.DB
}

// NewGormDocumentRegistry creates a new GormDocumentRegistry
func NewGormDocumentRegistry(db *gorm.DB) *GormDocumentRegistry {
	return &GormDocumentRegistry{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRegistry) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var doc document.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// ListByProject lists all documents attached to a project
func (r *GormDocumentRegistry) ListByProject(ctx context.Context, projectID uuid.UUID) ([]document.Document, error) {
	var docs []document.Document
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountByProjectAndCategory counts a project's documents in a category
func (r *GormDocumentRegistry) CountByProjectAndCategory(ctx context.Context, projectID uuid.UUID, category document.Category) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&document.Document{}).
		Where("project_id = ? AND category = ?", projectID, category).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a document record
func (r *GormDocumentRegistry) Save(ctx context.Context, doc *document.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete removes a document record
func (r *GormDocumentRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&document.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDocumentRegistry implements document.Registry
var _ document.Registry = (*GormDocumentRegistry)(nil)
