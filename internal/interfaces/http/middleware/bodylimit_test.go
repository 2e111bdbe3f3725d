package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitEngine(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(maxBytes))
	engine.POST("/investments", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})
	return engine
}

func TestBodyLimit_WithinLimit(t *testing.T) {
	engine := newBodyLimitEngine(64)

	req := httptest.NewRequest(http.MethodPost, "/investments", strings.NewReader(`{"amount":"25000"}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimit_DeclaredLengthTooLarge(t *testing.T) {
	engine := newBodyLimitEngine(16)

	req := httptest.NewRequest(http.MethodPost, "/investments", strings.NewReader(strings.Repeat("x", 64)))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_TOO_LARGE")
}

func TestBodyLimit_StreamedBodyCapped(t *testing.T) {
	engine := newBodyLimitEngine(16)

	// No Content-Length, so the declared-size check cannot fire and the
	// MaxBytesReader has to stop the read.
	req := httptest.NewRequest(http.MethodPost, "/investments", io.NopCloser(strings.NewReader(strings.Repeat("x", 64))))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBodyLimit_ExactLimitAccepted(t *testing.T) {
	engine := newBodyLimitEngine(8)

	req := httptest.NewRequest(http.MethodPost, "/investments", strings.NewReader("12345678"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
