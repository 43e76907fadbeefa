// Package middleware provides HTTP middleware for the API router.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the cross-origin policy for the API
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORSMiddleware answers preflight requests and stamps response headers for
// allowed origins
type CORSMiddleware struct {
	origins     []string
	wildcardAll bool

	// Joined header values, computed once at construction.
	methods     string
	headers     string
	exposed     string
	maxAge      string
	credentials bool
}

// NewCORSMiddleware creates a new CORS middleware, filling in defaults for
// any option left empty
func NewCORSMiddleware(config *CORSConfig) *CORSMiddleware {
	methods := config.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	headers := config.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{
			"Accept", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", "X-Request-ID", "X-User-ID",
		}
	}
	exposed := config.ExposedHeaders
	if len(exposed) == 0 {
		exposed = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	}
	maxAge := config.MaxAge
	if maxAge == 0 {
		maxAge = 86400
	}

	return &CORSMiddleware{
		origins:     config.AllowedOrigins,
		wildcardAll: len(config.AllowedOrigins) == 1 && config.AllowedOrigins[0] == "*",
		methods:     strings.Join(methods, ", "),
		headers:     strings.Join(headers, ", "),
		exposed:     strings.Join(exposed, ", "),
		maxAge:      strconv.Itoa(maxAge),
		credentials: config.AllowCredentials,
	}
}

// NewDefaultCORSMiddleware creates CORS middleware with development defaults
func NewDefaultCORSMiddleware() *CORSMiddleware {
	return NewCORSMiddleware(&CORSConfig{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:8080",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:8080",
		},
		AllowCredentials: true,
	})
}

// NewProductionCORSMiddleware creates CORS middleware for specific origins
func NewProductionCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	return NewCORSMiddleware(&CORSConfig{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	})
}

// Handler wraps the next handler with origin checks and preflight handling
func (c *CORSMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if r.Method == http.MethodOptions {
				c.preflight(w, origin)
				return
			}

			if origin == "" || c.originAllowed(origin) {
				c.stampHeaders(w, origin)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed matches the origin against the allowed list; "*" matches
// everything and "*.domain" matches subdomains
func (c *CORSMiddleware) originAllowed(origin string) bool {
	for _, allowed := range c.origins {
		switch {
		case allowed == "*" || allowed == origin:
			return true
		case strings.HasPrefix(allowed, "*.") && strings.HasSuffix(origin, allowed[2:]):
			return true
		}
	}
	return false
}

func (c *CORSMiddleware) stampHeaders(w http.ResponseWriter, origin string) {
	h := w.Header()
	switch {
	case origin != "":
		h.Set("Access-Control-Allow-Origin", origin)
	case c.wildcardAll:
		h.Set("Access-Control-Allow-Origin", "*")
	}
	if c.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.exposed != "" {
		h.Set("Access-Control-Expose-Headers", c.exposed)
	}
}

func (c *CORSMiddleware) preflight(w http.ResponseWriter, origin string) {
	if origin == "" || !c.originAllowed(origin) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	c.stampHeaders(w, origin)
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", c.methods)
	h.Set("Access-Control-Allow-Headers", c.headers)
	h.Set("Access-Control-Max-Age", c.maxAge)
	w.WriteHeader(http.StatusOK)
}
