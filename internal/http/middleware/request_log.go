package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cognigen/cognigen-backend/internal/platform/ctxutil"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

// RequestLogger writes one access line per request. Learning path routes also
// carry the path, topic and submodule ids so a single edit can be followed
// across the log and the AI service calls it made. Health and metrics probes
// are only logged when they fail.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if status < 400 && (route == "/healthcheck" || route == "/metrics") {
			return
		}

		fields := append(make([]interface{}, 0, 20),
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", c.Writer.Size(),
		)
		fields = append(fields, traceFields(ctxutil.GetTraceData(c.Request.Context()))...)
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
			fields = append(fields, "user_id", rd.UserID.String())
		}
		if err := c.Errors.Last(); err != nil {
			fields = append(fields, "error", err.Error())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}

func traceFields(td *ctxutil.TraceData) []interface{} {
	if td == nil {
		return nil
	}
	var out []interface{}
	add := func(k, v string) {
		if v != "" {
			out = append(out, k, v)
		}
	}
	add("request_id", td.RequestID)
	add("trace_id", td.TraceID)
	add("path_id", td.PathID)
	add("topic_id", td.TopicID)
	add("submodule_id", td.SubmoduleID)
	return out
}
