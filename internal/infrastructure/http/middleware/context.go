package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const requestContextKey contextKey = "request_context"

// RequestContext is the per-call context handed to RPC procedures.
// UserID is empty when the caller is not identified.
type RequestContext struct {
	Headers http.Header
	UserID  string
}

// WithRequestContext injects rc into the context.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFromContext returns the request context, or nil.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	v := ctx.Value(requestContextKey)
	if v == nil {
		return nil
	}
	rc, _ := v.(*RequestContext)
	return rc
}

// UserIDFromContext returns the caller's user id, or "" when unidentified.
func UserIDFromContext(ctx context.Context) string {
	if rc := RequestContextFromContext(ctx); rc != nil {
		return rc.UserID
	}
	return ""
}
