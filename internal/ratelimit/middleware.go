package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	apperrors "showrunner/internal/errors"
	"showrunner/internal/logging"
)

// Middleware enforces the limiter per client IP and sets the standard
// X-RateLimit response headers
func Middleware(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			result, err := limiter.Check(r.Context(), key)
			if err != nil {
				// A broken limiter must not take the API down
				logging.WarnContext(r.Context(), "rate limit check failed", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
				stdErr := apperrors.NewStandardError(apperrors.ErrorCodeRateLimited,
					fmt.Sprintf("rate limit exceeded: %d requests per window", result.Limit), nil)
				stdErr.WriteHTTPError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey derives the limiter key from the request's client IP
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
