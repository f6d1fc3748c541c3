package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cognigen/cognigen-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// AttachTraceContext gives every request a request id and trace id, echoes
// both in the response headers and records which learning path, topic and
// submodule the route addresses. The ids also land on the active span.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		td := &ctxutil.TraceData{
			RequestID:   incomingRequestID(c.GetHeader(headerRequestID)),
			TraceID:     strings.TrimSpace(c.GetHeader(headerTraceID)),
			PathID:      c.Param("id"),
			TopicID:     c.Param("topicId"),
			SubmoduleID: c.Param("subId"),
		}
		if td.TraceID == "" && span.SpanContext().HasTraceID() {
			td.TraceID = span.SpanContext().TraceID().String()
		}
		if td.TraceID == "" {
			td.TraceID = uuid.NewString()
		}

		if span.IsRecording() {
			attrs := []attribute.KeyValue{attribute.String("request.id", td.RequestID)}
			if td.PathID != "" {
				attrs = append(attrs, attribute.String("learning_path.id", td.PathID))
			}
			if td.TopicID != "" {
				attrs = append(attrs, attribute.String("learning_path.topic_id", td.TopicID))
			}
			if td.SubmoduleID != "" {
				attrs = append(attrs, attribute.String("learning_path.submodule_id", td.SubmoduleID))
			}
			span.SetAttributes(attrs...)
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)
		c.Next()
	}
}

// incomingRequestID keeps a caller supplied id when it is short and printable,
// otherwise it mints a new one. The id is forwarded to the AI service.
func incomingRequestID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLen {
		return uuid.NewString()
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return uuid.NewString()
		}
	}
	return id
}
