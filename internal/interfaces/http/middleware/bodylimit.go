package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terravest/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request body size. A declared Content-Length over the
// limit is rejected up front with 413; bodies without a declared length
// are wrapped in a MaxBytesReader so chunked uploads hit the same cap
// mid-read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge,
					"Request body exceeds maximum allowed size",
					c.GetString("request_id")))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
