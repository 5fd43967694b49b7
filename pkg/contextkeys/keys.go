// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SessionIDKey contains the opaque session id string for this request.
	// Set by: session.EnsureSession middleware
	// Required by: credentials.Extractor, logout handler
	// Type: string
	SessionIDKey Key = "session_id"

	// IdentityKey contains the verified token claims.
	// Set by: middleware.Auth gates after successful verification
	// Required by: all gated handlers (expenses, notes, CMS writes)
	// Type: *auth.Claims
	IdentityKey Key = "identity"

	// RenderKey contains the per-request render context.
	// Set by: render.Inject middleware, constructed fresh per request
	// Required by: page templates and the hydration state writer
	// Type: *render.Context
	RenderKey Key = "render_context"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger, request tracing in logs
	// Type: string
	RequestIDKey Key = "request_id"

	// LoggerKey contains the request-scoped logger (tagged with request_id).
	// Set by: httputil.LoggingMiddleware
	// Used by: httputil.RequestLogger, handlers logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"
)

// WithSessionID adds the session id to the context
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sid)
}

// GetSessionID retrieves the session id from context
func GetSessionID(ctx context.Context) string {
	if sid, ok := ctx.Value(SessionIDKey).(string); ok {
		return sid
	}
	return ""
}

// WithIdentity adds verified claims to the context
func WithIdentity(ctx context.Context, claims interface{}) context.Context {
	return context.WithValue(ctx, IdentityKey, claims)
}

// WithRenderContext adds the render context to the context
func WithRenderContext(ctx context.Context, rc interface{}) context.Context {
	return context.WithValue(ctx, RenderKey, rc)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}
