package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/terravest/backend/internal/domain/document"
)

// InitiateUploadRequest asks for a presigned upload slot
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// InitiateUploadResponse carries the presigned upload URL
type InitiateUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// AttachDocumentRequest records an uploaded file in the registry
type AttachDocumentRequest struct {
	StorageKey    string `json:"storage_key" binding:"required,max=512"`
	Title         string `json:"title" binding:"required,max=200"`
	Category      string `json:"category" binding:"required,oneof=LEGAL FINANCIAL IMAGE OTHER"`
	SecurityLevel string `json:"security_level" binding:"required,oneof=PUBLIC MEMBERS MANAGERS"`
	ContentType   string `json:"content_type" binding:"required,max=100"`
	SizeBytes     int64  `json:"size_bytes" binding:"required,gt=0"`
}

// RenameDocumentRequest changes a document's display title
type RenameDocumentRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// DocumentResponse is the outward representation of a document record
type DocumentResponse struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	SecurityLevel string    `json:"security_level"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	UploadedBy    uuid.UUID `json:"uploaded_by"`
	URL           string    `json:"url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DownloadResponse carries a presigned download URL
type DownloadResponse struct {
	DocumentID  uuid.UUID `json:"document_id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToDocumentResponse converts a domain document to its response form
func ToDocumentResponse(doc *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		ProjectID:     doc.ProjectID,
		Title:         doc.Title,
		Category:      doc.Category.String(),
		SecurityLevel: doc.SecurityLevel.String(),
		ContentType:   doc.ContentType,
		SizeBytes:     doc.SizeBytes,
		UploadedBy:    doc.UploadedBy,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
