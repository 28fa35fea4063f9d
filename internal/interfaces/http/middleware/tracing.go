package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin server-span middleware followed by an enricher
// that adds request_id, the dispatched action and the session user to the
// span. Register both with router.Use(Tracing(cfg)...). Disabled tracing
// yields no handlers.
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}

	return []gin.HandlerFunc{otelgin.Middleware(cfg.ServiceName), enrichSpan}
}

// enrichSpan runs inside the otelgin span; attributes are set after the
// handler returns so the session user is known.
func enrichSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if action := c.Query("action"); action != "" && len(action) <= 32 {
		span.SetAttributes(attribute.String("http.action", action))
	}
	if id, ok := GetUserID(c); ok {
		span.SetAttributes(attribute.String("user_id", id.String()))
	}
}
