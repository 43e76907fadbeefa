package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"showrunner/internal/api/response"
	"showrunner/internal/coordination"
)

// TimelineHandler exposes the timeline engine over HTTP
type TimelineHandler struct {
	service *coordination.Service
}

// NewTimelineHandler creates a timeline handler
func NewTimelineHandler(service *coordination.Service) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// requestScope pulls the workspace, event, and caller identity off a request
func requestScope(r *http.Request) (workspaceID, eventID, userID string) {
	return chi.URLParam(r, "workspaceID"), chi.URLParam(r, "eventID"), r.Header.Get("X-User-ID")
}

// HandleSync runs a full timeline synchronization for an event
func (h *TimelineHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	workspaceID, eventID, userID := requestScope(r)
	if userID == "" {
		response.WriteBadRequest(w, "X-User-ID", "caller identity header is required")
		return
	}

	result, err := h.service.SynchronizeTimeline(r.Context(), workspaceID, eventID, userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteSuccess(w, result, "timeline synchronized")
}

// HandleDateChange re-aligns previously corrected tasks after event dates moved
func (h *TimelineHandler) HandleDateChange(w http.ResponseWriter, r *http.Request) {
	workspaceID, eventID, userID := requestScope(r)
	if userID == "" {
		response.WriteBadRequest(w, "X-User-ID", "caller identity header is required")
		return
	}

	result, err := h.service.HandleEventDateChange(r.Context(), workspaceID, eventID, userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteSuccess(w, result, "aligned tasks re-checked")
}

// HandleMilestones returns the derived milestone set for an event
func (h *TimelineHandler) HandleMilestones(w http.ResponseWriter, r *http.Request) {
	workspaceID, eventID, userID := requestScope(r)
	if userID == "" {
		response.WriteBadRequest(w, "X-User-ID", "caller identity header is required")
		return
	}

	milestones, err := h.service.GenerateMilestones(r.Context(), workspaceID, eventID, userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteSuccess(w, milestones)
}

// HandleProgress returns the progress report for an event
func (h *TimelineHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	workspaceID, eventID, userID := requestScope(r)
	if userID == "" {
		response.WriteBadRequest(w, "X-User-ID", "caller identity header is required")
		return
	}

	report, err := h.service.BuildProgressReport(r.Context(), workspaceID, eventID, userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteSuccess(w, report)
}

// HandleTemplateRecommendations scores templates against an event
func (h *TimelineHandler) HandleTemplateRecommendations(w http.ResponseWriter, r *http.Request) {
	workspaceID, eventID, userID := requestScope(r)
	if userID == "" {
		response.WriteBadRequest(w, "X-User-ID", "caller identity header is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.WriteBadRequest(w, "limit", "must be an integer")
			return
		}
		limit = parsed
	}

	recommendations, err := h.service.RecommendTemplates(r.Context(), workspaceID, eventID, userID, limit)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteSuccess(w, recommendations)
}
