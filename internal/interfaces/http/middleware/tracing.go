package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Caps on identity values copied from headers into span attributes.
const (
	MaxRequestIDLength = 128
	MaxMemberIDLength  = 64
)

var memberIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig configures the request tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns the standard tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "terravest-backend",
		Enabled:     true,
	}
}

// Tracing traces requests with DefaultTracingConfig.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig opens a server span per request via otelgin, named
// "METHOD route". The span only lives while the rest of the chain runs, so
// identity attributes are attached by TracingAttributeInjector, which must
// be registered after this middleware (and after auth, if member identity
// should come from the token).
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector stamps the active span with the correlation ID
// and the caller's member identity.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			stampIdentity(c, span)
		}
		c.Next()
	}
}

func stampIdentity(c *gin.Context, span trace.Span) {
	if id := traceRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if member := traceMemberID(c); member != "" {
		span.SetAttributes(attribute.String("member_id", member))
	}
}

func traceRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	// Header fallback is attacker-controlled, so cap its length.
	id := c.GetHeader("X-Request-ID")
	if len(id) > MaxRequestIDLength {
		id = id[:MaxRequestIDLength]
	}
	return id
}

func traceMemberID(c *gin.Context) string {
	// The JWT middleware is the trusted source.
	if member := memberIDFrom(c); member != "" {
		return member
	}
	// The header fallback only passes through well-formed UUIDs, so free
	// text cannot land in trace attributes.
	header := c.GetHeader("X-Member-ID")
	if len(header) <= MaxMemberIDLength && memberIDPattern.MatchString(header) {
		return header
	}
	return ""
}

var statusMessages = map[int]string{
	http.StatusUnauthorized: "Unauthorized",
	http.StatusForbidden:    "Forbidden",
	http.StatusNotFound:     "Not Found",
}

// SpanErrorMarker flags the active span as errored for 4xx/5xx responses.
// Register it after the tracing middleware so it runs inside the span.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		msg, ok := statusMessages[status]
		if !ok {
			if status >= http.StatusInternalServerError {
				msg = "Internal Server Error"
			} else {
				msg = "Client Error"
			}
		}
		span.SetStatus(codes.Error, msg)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
