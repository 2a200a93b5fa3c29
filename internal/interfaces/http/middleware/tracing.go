package middleware

import (
	"net/http"

	"github.com/erp/backoffice/internal/contract"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the longest request ID accepted from a client header
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "erp-backoffice",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin middleware. Pair it with
// SpanEnricher for request attributes and error status.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher must run inside the span created by Tracing. It tags the
// span once the rest of the chain has finished.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		enrichSpan(c, span)
		markSpanStatus(span, c.Writer.Status())
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := c.GetString(RequestIDKey); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if family := c.Param("family"); family != "" {
		span.SetAttributes(attribute.String("rpc.family", family))
	}
	if mode, ok := c.Get(RPCModeKey); ok {
		if m, ok := mode.(contract.Mode); ok {
			span.SetAttributes(attribute.Int("rpc.mode", int(m)))
		}
	}
	if username := c.GetString(UsernameKey); username != "" {
		span.SetAttributes(attribute.String("enduser.id", username))
	}
	if userID := GetJWTUserID(c); userID != 0 {
		span.SetAttributes(attribute.Int64("user_id", userID))
	}
}

func markSpanStatus(span trace.Span, status int) {
	if status < http.StatusBadRequest {
		return
	}
	var msg string
	switch {
	case status >= http.StatusInternalServerError:
		msg = "Internal Server Error"
	case status == http.StatusUnauthorized:
		msg = "Unauthorized"
	case status == http.StatusForbidden:
		msg = "Forbidden"
	case status == http.StatusNotFound:
		msg = "Not Found"
	default:
		msg = "Client Error"
	}
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attribute.Int("http.status_code", status))
}
