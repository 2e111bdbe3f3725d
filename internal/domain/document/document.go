package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/terravest/backend/internal/domain/shared"
)

// Category represents the business category of a project document
type Category string

const (
	CategoryLegal     Category = "LEGAL"
	CategoryFinancial Category = "FINANCIAL"
	CategoryImage     Category = "IMAGE"
	CategoryOther     Category = "OTHER"
)

// IsValid checks if the category is a known Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryLegal, CategoryFinancial, CategoryImage, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// SecurityLevel restricts who may read a document
type SecurityLevel string

const (
	SecurityPublic   SecurityLevel = "PUBLIC"
	SecurityMembers  SecurityLevel = "MEMBERS"
	SecurityManagers SecurityLevel = "MANAGERS"
)

// IsValid checks if the security level is a known SecurityLevel
func (l SecurityLevel) IsValid() bool {
	switch l {
	case SecurityPublic, SecurityMembers, SecurityManagers:
		return true
	}
	return false
}

// String returns the string representation of SecurityLevel
func (l SecurityLevel) String() string {
	return string(l)
}

// VisibleTo reports whether a caller with the given role may read the document
func (l SecurityLevel) VisibleTo(role shared.Role) bool {
	switch l {
	case SecurityPublic:
		return true
	case SecurityMembers:
		return role.IsValid()
	case SecurityManagers:
		return role.CanManageProjects()
	}
	return false
}

// Document is a per-project file record. File content lives in object
// storage under StorageKey; this entity only carries the metadata the
// readiness validator and the document endpoints need.
type Document struct {
	shared.BaseEntity
	ProjectID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	Title         string        `gorm:"type:varchar(200);not null"`
	Category      Category      `gorm:"type:varchar(20);not null;index"`
	SecurityLevel SecurityLevel `gorm:"type:varchar(20);not null"`
	StorageKey    string        `gorm:"type:varchar(512);not null"`
	ContentType   string        `gorm:"type:varchar(100)"`
	SizeBytes     int64         `gorm:"not null;default:0"`
	UploadedBy    uuid.UUID     `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a new document record
func NewDocument(projectID, uploadedBy uuid.UUID, title string, category Category, level SecurityLevel, storageKey, contentType string, sizeBytes int64) (*Document, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Document title cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown document category %q", category))
	}
	if !level.IsValid() {
		return nil, shared.NewDomainError("INVALID_SECURITY_LEVEL", fmt.Sprintf("Unknown security level %q", level))
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if sizeBytes < 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Document size cannot be negative")
	}

	return &Document{
		BaseEntity:    shared.NewBaseEntity(),
		ProjectID:     projectID,
		Title:         title,
		Category:      category,
		SecurityLevel: level,
		StorageKey:    storageKey,
		ContentType:   contentType,
		SizeBytes:     sizeBytes,
		UploadedBy:    uploadedBy,
	}, nil
}

// Rename updates the document title
func (d *Document) Rename(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Document title cannot be empty")
	}
	d.Title = title
	d.UpdatedAt = time.Now()
	return nil
}
