package document

import (
	"context"

	"github.com/google/uuid"
)

// Registry defines the document registry consumed by the readiness
// validator and the document endpoints. The validator only ever reads;
// it cares about category presence, nothing else.
type Registry interface {
	// FindByID finds a document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// ListByProject lists all documents attached to a project
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Document, error)

	// CountByProjectAndCategory counts a project's documents in a category
	CountByProjectAndCategory(ctx context.Context, projectID uuid.UUID, category Category) (int64, error)

	// Save creates or updates a document record
	Save(ctx context.Context, doc *Document) error

	// Delete removes a document record
	Delete(ctx context.Context, id uuid.UUID) error
}
