// Package api provides the HTTP API layer for the timeline service.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"showrunner/internal/api/handlers"
	"showrunner/internal/api/middleware"
	"showrunner/internal/config"
	"showrunner/internal/coordination"
	"showrunner/internal/logging"
	"showrunner/internal/notify"
	"showrunner/internal/ratelimit"
)

const version = "1.0.0"

// Router assembles the middleware stack and routes
type Router struct {
	config  *config.Config
	mux     *chi.Mux
	service *coordination.Service
	hub     *notify.Hub
	limiter ratelimit.Limiter
}

// NewRouter creates the API router. The limiter is optional; pass nil to
// disable rate limiting.
func NewRouter(cfg *config.Config, service *coordination.Service, hub *notify.Hub, limiter ratelimit.Limiter, logger logging.Logger) *Router {
	r := &Router{
		config:  cfg,
		mux:     chi.NewRouter(),
		service: service,
		hub:     hub,
		limiter: limiter,
	}
	r.setupMiddleware(logger)
	r.setupRoutes()
	return r
}

// Handler exposes the assembled mux
func (r *Router) Handler() http.Handler {
	return r.mux
}

// setupMiddleware installs the middleware chain in order
func (r *Router) setupMiddleware(logger logging.Logger) {
	// Recovery first so later panics still produce a 500
	r.mux.Use(chimiddleware.Recoverer)

	r.mux.Use(r.timeoutMiddleware())
	r.mux.Use(middleware.NewLoggingMiddleware(logger).Handler())
	r.mux.Use(r.createCORSMiddleware().Handler())

	if r.limiter != nil {
		r.mux.Use(ratelimit.Middleware(r.limiter))
	}

	// Request size limit (1MB); the API carries no large payloads
	r.mux.Use(chimiddleware.RequestSize(1 * 1024 * 1024))

	// Load balancer heartbeat
	r.mux.Use(chimiddleware.Heartbeat("/ping"))
}

// createCORSMiddleware picks permissive CORS for local development and strict
// CORS elsewhere
func (r *Router) createCORSMiddleware() *middleware.CORSMiddleware {
	if r.config.Server.Host == "localhost" || r.config.Server.Host == "127.0.0.1" {
		return middleware.NewDefaultCORSMiddleware()
	}
	return middleware.NewProductionCORSMiddleware([]string{"https://" + r.config.Server.Host})
}

// timeoutMiddleware applies a request timeout everywhere except WebSocket
// endpoints
func (r *Router) timeoutMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/v1/ws") {
				next.ServeHTTP(w, req)
				return
			}
			chimiddleware.Timeout(30*time.Second)(next).ServeHTTP(w, req)
		})
	}
}

// setupRoutes mounts the timeline endpoints
func (r *Router) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(version)
	timelineHandler := handlers.NewTimelineHandler(r.service)

	// Health check endpoint without version prefix for load balancers
	r.mux.Get("/health", healthHandler.Handle)

	r.mux.Route("/api/v1", func(rtr chi.Router) {
		rtr.Get("/health", healthHandler.Handle)

		rtr.Route("/workspaces/{workspaceID}/events/{eventID}", func(rtr chi.Router) {
			rtr.Post("/sync", timelineHandler.HandleSync)
			rtr.Post("/dates-changed", timelineHandler.HandleDateChange)
			rtr.Get("/milestones", timelineHandler.HandleMilestones)
			rtr.Get("/progress", timelineHandler.HandleProgress)
			rtr.Get("/template-recommendations", timelineHandler.HandleTemplateRecommendations)
		})

		if r.hub != nil {
			rtr.Get("/ws/risks", func(w http.ResponseWriter, req *http.Request) {
				notify.ServeWS(r.hub, w, req)
			})
		}
	})
}
