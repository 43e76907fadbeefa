package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"showrunner/internal/logging"
)

// LoggingMiddleware logs requests and responses with a per-request trace ID
type LoggingMiddleware struct {
	logger logging.Logger
}

// NewLoggingMiddleware builds the request logging middleware
func NewLoggingMiddleware(logger logging.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger.WithComponent("http")}
}

// Handler logs each request with its trace ID, status, and duration
func (lm *LoggingMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := logging.WithTraceID(r.Context(), requestID)
			r = r.WithContext(ctx)
			w.Header().Set("X-Request-ID", requestID)

			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			// Health checks are too noisy to log
			if r.URL.Path == "/health" || r.URL.Path == "/ping" {
				return
			}

			duration := time.Since(start)
			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapper.statusCode,
				"duration_ms", duration.Milliseconds(),
				"remote", r.RemoteAddr,
			}
			if wrapper.statusCode >= 500 {
				lm.logger.ErrorContext(ctx, "request failed", fields...)
			} else if wrapper.statusCode >= 400 {
				lm.logger.WarnContext(ctx, "request rejected", fields...)
			} else {
				lm.logger.InfoContext(ctx, "request served", fields...)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader records the status before delegating
func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
