package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return tagged(slog.Default(), "")
}

// Middleware puts a request-scoped logger in the context, tagged with the
// HTTP component and, when requestID is non-nil, the request ID.
func Middleware(logger *Logger, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	base := logger.WithComponent(ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base
			if requestID != nil {
				if id := requestID(r); id != "" {
					l = l.With(NewFields().WithRequestID(id).ToSlice()...)
				}
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), l)))
		})
	}
}
