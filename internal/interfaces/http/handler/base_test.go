package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terravest/backend/internal/domain/shared"
	"github.com/terravest/backend/internal/infrastructure/auth"
	"github.com/terravest/backend/internal/interfaces/http/dto"
	"github.com/terravest/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext simulates an authenticated request without a real token.
func setJWTContext(c *gin.Context, memberID uuid.UUID, role string) {
	claims := &auth.Claims{
		MemberID: memberID.String(),
		Role:     role,
	}
	c.Set(middleware.JWTClaimsKey, claims)
	c.Set(middleware.JWTMemberIDKey, memberID.String())
	c.Set(middleware.JWTRoleKey, role)
}

func newHandlerContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("middleware value wins", func(t *testing.T) {
		c, _ := newHandlerContext(t)
		c.Set("request_id", "mw-id")
		c.Request.Header.Set(RequestIDKey, "header-id")
		assert.Equal(t, "mw-id", getRequestID(c))
	})

	t.Run("header fallback", func(t *testing.T) {
		c, _ := newHandlerContext(t)
		c.Request.Header.Set(RequestIDKey, "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty when absent", func(t *testing.T) {
		c, _ := newHandlerContext(t)
		assert.Empty(t, getRequestID(c))
	})
}

func TestGetCaller(t *testing.T) {
	t.Run("builds caller from claims", func(t *testing.T) {
		c, _ := newHandlerContext(t)
		memberID := uuid.New()
		setJWTContext(c, memberID, string(shared.RoleManager))

		caller, err := getCaller(c)
		require.NoError(t, err)
		assert.Equal(t, memberID, caller.ID)
		assert.Equal(t, shared.RoleManager, caller.Role)
	})

	t.Run("fails without claims", func(t *testing.T) {
		c, _ := newHandlerContext(t)
		_, err := getCaller(c)
		require.Error(t, err)
	})
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("Success", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.Success(c, map[string]string{"status": "funding"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Error)
	})

	t.Run("SuccessWithMeta", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(42), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
	})

	t.Run("Created", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.Created(c, map[string]string{"id": uuid.NewString()})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("NoContent", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerErrorHelpers(t *testing.T) {
	h := &BaseHandler{}

	cases := []struct {
		name       string
		invoke     func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"BadRequest", func(c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(c *gin.Context) { h.NotFound(c, "missing") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"Unauthorized", func(c *gin.Context) { h.Unauthorized(c, "who") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"Forbidden", func(c *gin.Context) { h.Forbidden(c, "no") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{"Conflict", func(c *gin.Context) { h.Conflict(c, "taken") }, http.StatusConflict, dto.ErrCodeConflict},
		{"InternalError", func(c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"TooManyRequests", func(c *gin.Context) { h.TooManyRequests(c, "slow down") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
		{"UnprocessableEntity", func(c *gin.Context) { h.UnprocessableEntity(c, dto.ErrCodeOverfunded, "ceiling") }, http.StatusUnprocessableEntity, dto.ErrCodeOverfunded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newHandlerContext(t)
			tc.invoke(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerContext(t)
	c.Set("request_id", "req-55")

	h.NotFound(c, "project not found")

	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-55", resp.Error.RequestID)
}

func TestBaseHandlerErrorWithCode(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerContext(t)

	h.ErrorWithCode(c, dto.ErrCodePublishBlocked, "readiness checks failed")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodePublishBlocked, resp.Error.Code)
}

func TestBaseHandlerValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerContext(t)

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "target_amount", Message: "Must be positive"},
		{Field: "title", Message: "This field is required"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "target_amount", resp.Error.Details[0].Field)
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil is a no-op", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})

	t.Run("domain sentinel maps to status", func(t *testing.T) {
		cases := []struct {
			err        error
			wantStatus int
			wantCode   string
		}{
			{shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
			{shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
			{shared.ErrContention, http.StatusConflict, dto.ErrCodeContention},
			{shared.ErrIllegalTransition, http.StatusUnprocessableEntity, dto.ErrCodeIllegalTransition},
			{shared.ErrImmutableField, http.StatusUnprocessableEntity, dto.ErrCodeImmutableField},
		}
		for _, tc := range cases {
			c, w := newHandlerContext(t)
			h.HandleError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code, tc.wantCode)
			resp := decodeEnvelope(t, w)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		}
	})

	t.Run("wrapped domain error still classified", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.HandleError(c, fmt.Errorf("load project: %w", shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom domain code passes through", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.HandleError(c, shared.NewDomainError("OVERFUNDED", "funding ceiling reached"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeOverfunded, resp.Error.Code)
		assert.Equal(t, "funding ceiling reached", resp.Error.Message)
	})

	t.Run("unknown error hides its message", func(t *testing.T) {
		c, w := newHandlerContext(t)
		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})
}

func TestBaseHandlerHandleDomainErrorDelegates(t *testing.T) {
	h := &BaseHandler{}
	c, w := newHandlerContext(t)

	h.HandleDomainError(c, shared.ErrConcurrencyConflict)

	assert.Equal(t, http.StatusConflict, w.Code)
}
