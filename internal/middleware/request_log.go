package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/rulemine/rulemine-backend/internal/pkg/ctxutil"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// RequestLog assigns a request id, carries trace data through the context and
// logs one line per request. Runs after the otel middleware so the trace id
// is already on the span.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		td := &ctxutil.TraceData{RequestID: requestID}
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
			td.TraceID = span.SpanContext().TraceID().String()
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		reqLog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
			"trace_id", td.TraceID,
		)
	}
}
