package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries request correlation ids plus the learning path route
// parameters, when the route has them.
type TraceData struct {
	TraceID   string
	RequestID string

	PathID      string
	TopicID     string
	SubmoduleID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// RequestID returns the request id attached to ctx, or "".
func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}
