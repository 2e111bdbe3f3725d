package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terravest/backend/internal/domain/document"
	"github.com/terravest/backend/internal/domain/project"
	"github.com/terravest/backend/internal/domain/shared"
)

// AllowedContentTypes is the whitelist for project document uploads.
// SVG is excluded because it can carry scripts.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or the local stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// DocumentServiceConfig holds configuration for the document service
type DocumentServiceConfig struct {
	UploadURLExpiry        time.Duration
	DownloadURLExpiry      time.Duration
	MaxDocumentsPerProject int
}

// DefaultDocumentServiceConfig returns the default configuration
func DefaultDocumentServiceConfig() DocumentServiceConfig {
	return DocumentServiceConfig{
		UploadURLExpiry:        15 * time.Minute,
		DownloadURLExpiry:      1 * time.Hour,
		MaxDocumentsPerProject: 50,
	}
}

// DocumentService handles the project document registry. Uploads are a
// two-step flow: the client first asks for a presigned upload URL, pushes
// the file to object storage, then attaches the metadata record. Only
// attached documents count toward publish readiness.
type DocumentService struct {
	registry       document.Registry
	projectRepo    project.Repository
	storageService ObjectStorageService
	config         DocumentServiceConfig
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(registry document.Registry, projectRepo project.Repository, storageService ObjectStorageService) *DocumentService {
	return &DocumentService{
		registry:       registry,
		projectRepo:    projectRepo,
		storageService: storageService,
		config:         DefaultDocumentServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *DocumentService) SetConfig(config DocumentServiceConfig) {
	s.config = config
}

// InitiateUpload returns a presigned upload URL for a new project
// document. No registry record is created yet; the file does not exist
// until the client attaches it.
func (s *DocumentService) InitiateUpload(ctx context.Context, caller shared.Caller, projectID uuid.UUID, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	if !AllowedContentTypes[req.ContentType] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed", req.ContentType))
	}

	count, err := s.countDocuments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.config.MaxDocumentsPerProject) {
		return nil, shared.NewDomainError("DOCUMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d documents per project allowed", s.config.MaxDocumentsPerProject))
	}

	storageKey := s.generateStorageKey(projectID, req.FileName)

	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// Attach records an uploaded file in the registry. The object must
// already exist in storage; a record is never created for a file that was
// never pushed.
func (s *DocumentService) Attach(ctx context.Context, caller shared.Caller, projectID uuid.UUID, req AttachDocumentRequest) (*DocumentResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	exists, err := s.storageService.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage. Please upload the file first.")
	}

	doc, err := document.NewDocument(
		projectID,
		caller.ID,
		req.Title,
		document.Category(req.Category),
		document.SecurityLevel(req.SecurityLevel),
		req.StorageKey,
		req.ContentType,
		req.SizeBytes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := s.toResponse(ctx, doc)
	return &response, nil
}

// Rename changes a document's display title
func (s *DocumentService) Rename(ctx context.Context, caller shared.Caller, documentID uuid.UUID, title string) (*DocumentResponse, error) {
	if !caller.Role.CanManageProjects() {
		return nil, shared.ErrForbidden
	}

	doc, err := s.registry.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := doc.Rename(title); err != nil {
		return nil, err
	}

	if err := s.registry.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := s.toResponse(ctx, doc)
	return &response, nil
}

// ListForProject lists the project's documents the caller may see.
// Records above the caller's security level are filtered out, not
// surfaced as errors.
func (s *DocumentService) ListForProject(ctx context.Context, caller shared.Caller, projectID uuid.UUID) ([]DocumentResponse, error) {
	docs, err := s.registry.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		if !docs[i].SecurityLevel.VisibleTo(caller.Role) {
			continue
		}
		responses = append(responses, s.toResponse(ctx, &docs[i]))
	}
	return responses, nil
}

// Download returns a presigned download URL for a single document
func (s *DocumentService) Download(ctx context.Context, caller shared.Caller, documentID uuid.UUID) (*DownloadResponse, error) {
	doc, err := s.registry.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if !doc.SecurityLevel.VisibleTo(caller.Role) {
		return nil, shared.ErrForbidden
	}

	url, expiresAt, err := s.storageService.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &DownloadResponse{
		DocumentID:  doc.ID,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

// Delete removes the registry record and the stored object
func (s *DocumentService) Delete(ctx context.Context, caller shared.Caller, documentID uuid.UUID) error {
	if !caller.Role.CanManageProjects() {
		return shared.ErrForbidden
	}

	doc, err := s.registry.FindByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.registry.Delete(ctx, doc.ID); err != nil {
		return err
	}

	// Orphaned objects are harmless; the record is already gone
	_ = s.storageService.DeleteObject(ctx, doc.StorageKey)

	return nil
}

func (s *DocumentService) countDocuments(ctx context.Context, projectID uuid.UUID) (int64, error) {
	docs, err := s.registry.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// generateStorageKey builds a collision-free object key that keeps a
// project's files under one prefix
func (s *DocumentService) generateStorageKey(projectID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	base = sanitizeFileName(base)
	return fmt.Sprintf("projects/%s/documents/%s-%s%s", projectID, base, uuid.New().String()[:8], ext)
}

func (s *DocumentService) toResponse(ctx context.Context, doc *document.Document) DocumentResponse {
	response := ToDocumentResponse(doc)
	url, _, err := s.storageService.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry)
	if err == nil {
		response.URL = url
	}
	return response
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
