package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraconfig "github.com/terravest/backend/internal/infrastructure/config"
)

func testStorageConfig() *infraconfig.StorageConfig {
	return &infraconfig.StorageConfig{
		Endpoint:          "localhost:9000",
		Bucket:            "terravest-documents",
		AccessKey:         "test-access",
		SecretKey:         "test-secret",
		UsePathStyle:      true,
		PresignExpiration: 15 * time.Minute,
	}
}

func TestNewS3ObjectStorageValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*infraconfig.StorageConfig)
		wantErr string
	}{
		{
			name:    "missing bucket",
			mutate:  func(c *infraconfig.StorageConfig) { c.Bucket = "" },
			wantErr: "bucket is required",
		},
		{
			name:    "missing access key",
			mutate:  func(c *infraconfig.StorageConfig) { c.AccessKey = "" },
			wantErr: "access key is required",
		},
		{
			name:    "missing secret key",
			mutate:  func(c *infraconfig.StorageConfig) { c.SecretKey = "" },
			wantErr: "secret key is required",
		},
		{
			name:    "unparseable endpoint",
			mutate:  func(c *infraconfig.StorageConfig) { c.Endpoint = "://bad" },
			wantErr: "invalid storage endpoint",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testStorageConfig()
			tc.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
	})
}

func TestResolveEndpoint(t *testing.T) {
	cases := []struct {
		name     string
		endpoint string
		useSSL   bool
		want     string
	}{
		{"empty falls back to local default", "", false, "http://localhost:9000"},
		{"bare host gets http", "minio.internal:9000", false, "http://minio.internal:9000"},
		{"bare host gets https when ssl", "minio.internal:9000", true, "https://minio.internal:9000"},
		{"explicit scheme kept", "https://s3.eu-central-1.amazonaws.com", false, "https://s3.eu-central-1.amazonaws.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testStorageConfig()
			cfg.Endpoint = tc.endpoint
			cfg.UseSSL = tc.useSSL
			got, err := resolveEndpoint(cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestS3ObjectStorageOptions(t *testing.T) {
	t.Run("default presign expiration", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PresignExpiration = 0
		st, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, defaultPresignExpiration, st.presignExpiration)
	})

	t.Run("WithPresignExpiration", func(t *testing.T) {
		st, err := NewS3ObjectStorage(testStorageConfig(), WithPresignExpiration(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, st.presignExpiration)
	})

	t.Run("WithLogger", func(t *testing.T) {
		log := zap.NewExample()
		st, err := NewS3ObjectStorage(testStorageConfig(), WithLogger(log))
		require.NoError(t, err)
		assert.Same(t, log, st.logger)
	})
}

// Presigning is pure signature math, no backend needed.
func TestGenerateUploadURL(t *testing.T) {
	st, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)

	t.Run("signs PUT for key", func(t *testing.T) {
		url, expiresAt, err := st.GenerateUploadURL(t.Context(), "projects/p-1/prospectus.pdf", "application/pdf", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "terravest-documents")
		assert.Contains(t, url, "projects/p-1/prospectus.pdf")
		assert.Contains(t, url, "X-Amz-Expires=900")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("caller expiration wins", func(t *testing.T) {
		url, expiresAt, err := st.GenerateUploadURL(t.Context(), "projects/p-1/plan.pdf", "application/pdf", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=3600")
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, _, err := st.GenerateUploadURL(t.Context(), "", "application/pdf", 0)
		require.Error(t, err)
	})
}

func TestGenerateDownloadURL(t *testing.T) {
	st, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)

	t.Run("signs GET for key", func(t *testing.T) {
		url, expiresAt, err := st.GenerateDownloadURL(t.Context(), "projects/p-2/valuation.pdf", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "projects/p-2/valuation.pdf")
		assert.Contains(t, url, "X-Amz-Expires=900")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, _, err := st.GenerateDownloadURL(t.Context(), "", 0)
		require.Error(t, err)
	})
}

func TestKeyValidationWithoutBackend(t *testing.T) {
	st, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)

	require.Error(t, st.DeleteObject(t.Context(), ""))

	_, err = st.ObjectExists(t.Context(), "")
	require.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"typed NotFound", &types.NotFound{}, true},
		{"typed NoSuchBucket", &types.NoSuchBucket{}, true},
		{"typed NoSuchKey", &types.NoSuchKey{}, true},
		{"wrapped typed error", fmt.Errorf("head: %w", &types.NotFound{}), true},
		{"api error code NotFound", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"api error code NoSuchKey", &smithy.GenericAPIError{Code: "NoSuchKey"}, true},
		{"api error other code", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", assert.AnError, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isNotFound(tc.err))
		})
	}
}
