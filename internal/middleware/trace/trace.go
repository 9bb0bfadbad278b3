// Package trace tags every request with an ID, logs its start and end, and
// turns handler panics into a 500.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync/atomic"
	"time"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader is read from clients and echoed on every response.
	RequestIDHeader = "X-Request-ID"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_\-.]{1,64}$`)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *slog.Logger
	onPanic   func(http.ResponseWriter, *http.Request)

	totalRequests int64
	totalMicros   int64
	panics        int64
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests       int64
	AverageResponseTime int64 // in microseconds
	Panics              int64
}

// NewMiddleware creates a trace middleware. onPanic writes the response after
// a recovered panic; nil sends a bare 500.
func NewMiddleware(logger *slog.Logger, extractIP func(*http.Request) string, onPanic func(http.ResponseWriter, *http.Request)) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{extractIP: extractIP, logger: logger, onPanic: onPanic}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(requestID) {
			requestID = GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)

		m.logger.InfoContext(ctx, "HTTP request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"),
			"content_length", r.ContentLength)

		atomic.AddInt64(&m.totalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if rec := recover(); rec != nil {
				atomic.AddInt64(&m.panics, 1)
				m.logger.ErrorContext(ctx, "Handler panic recovered",
					"request_id", requestID,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec))
				if !rw.wroteHeader {
					if m.onPanic != nil {
						m.onPanic(rw, r)
					} else {
						rw.WriteHeader(http.StatusInternalServerError)
					}
				}
			}

			duration := time.Since(start)
			atomic.AddInt64(&m.totalMicros, duration.Microseconds())

			level := slog.LevelInfo
			if rw.statusCode >= 400 && rw.statusCode < 500 {
				level = slog.LevelWarn
			} else if rw.statusCode >= 500 {
				level = slog.LevelError
			}
			m.logger.Log(ctx, level, "HTTP request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", rw.statusCode,
				"duration_ms", duration.Milliseconds(),
				"client_ip", clientIP,
				"success", rw.statusCode < 400)
		}()
		next.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	total := atomic.LoadInt64(&m.totalRequests)
	var avg int64
	if total > 0 {
		avg = atomic.LoadInt64(&m.totalMicros) / total
	}
	return Metrics{
		TotalRequests:       total,
		AverageResponseTime: avg,
		Panics:              atomic.LoadInt64(&m.panics),
	}
}
