package storage

import (
	"context"
	"errors"
	"time"

	documentapp "github.com/terravest/backend/internal/application/document"
)

var _ documentapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage fabricates URLs without talking to any backend. It
// keeps the document flow usable in development environments that have no
// object store configured; ObjectExists always succeeds so uploads can be
// confirmed without a real PUT.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage returns a stub pointing at a placeholder host.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

func (s *StubObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return s.fakeURL("upload", storageKey, expiresIn)
}

func (s *StubObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.fakeURL("download", storageKey, expiresIn)
}

func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}

func (s *StubObjectStorage) fakeURL(op, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + op + "/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}
