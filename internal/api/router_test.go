package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showrunner/internal/config"
	"showrunner/internal/coordination"
	"showrunner/internal/logging"
	"showrunner/internal/milestones"
	"showrunner/internal/notify"
	"showrunner/internal/ratelimit"
	"showrunner/internal/storage"
	"showrunner/pkg/types"
)

type allowAllOracle struct{}

func (allowAllOracle) HasPermission(context.Context, string, string, string) (bool, error) {
	return true, nil
}

type denyAllOracle struct{}

func (denyAllOracle) HasPermission(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func newTestRouter(t *testing.T, store *storage.MockStore, oracle coordination.PermissionOracle) http.Handler {
	t.Helper()
	logger := logging.NewNoOpLogger()
	service := coordination.NewService(store, oracle, milestones.NewGenerator(),
		notify.NewLogSink(logger), logger)
	return NewRouter(config.DefaultConfig(), service, nil, nil, logger).Handler()
}

func seedStore(t *testing.T) *storage.MockStore {
	t.Helper()
	store := storage.NewMockStore()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	deadline := time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)
	store.AddEvent(&types.Event{
		ID: "evt-1", WorkspaceID: "ws-1", OrganizationID: "org-1",
		Title: "Spring Summit", StartDate: start, EndDate: &end,
		RegistrationDeadline: &deadline,
		CreatedAt:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return store
}

func doRequest(handler http.Handler, method, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	handler := newTestRouter(t, seedStore(t), allowAllOracle{})

	rec := doRequest(handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRouter_Milestones(t *testing.T) {
	handler := newTestRouter(t, seedStore(t), allowAllOracle{})

	rec := doRequest(handler, http.MethodGet, "/api/v1/workspaces/ws-1/events/evt-1/milestones", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []types.Milestone `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 8)
	assert.Equal(t, "registration-open", envelope.Data[0].ID)
}

func TestRouter_SyncAppliesCorrections(t *testing.T) {
	store := seedStore(t)
	late := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	store.AddTask(&types.Task{
		ID: "task-1", WorkspaceID: "ws-1", EventID: "evt-1",
		Title: "Ship staging gear", Category: types.TaskCategoryLogistics,
		Status: types.TaskStatusInProgress, Priority: types.TaskPriorityHigh,
		DueDate: &late,
	})
	handler := newTestRouter(t, store, allowAllOracle{})

	rec := doRequest(handler, http.MethodPost, "/api/v1/workspaces/ws-1/events/evt-1/sync", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data coordination.SyncResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.AppliedCount)
	assert.Len(t, store.Applied, 1)
}

func TestRouter_MissingUserHeader(t *testing.T) {
	handler := newTestRouter(t, seedStore(t), allowAllOracle{})

	rec := doRequest(handler, http.MethodGet, "/api/v1/workspaces/ws-1/events/evt-1/progress", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRouter_PermissionDenied(t *testing.T) {
	handler := newTestRouter(t, seedStore(t), denyAllOracle{})

	rec := doRequest(handler, http.MethodPost, "/api/v1/workspaces/ws-1/events/evt-1/sync", "user-1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestRouter_EventNotFound(t *testing.T) {
	handler := newTestRouter(t, seedStore(t), allowAllOracle{})

	rec := doRequest(handler, http.MethodGet, "/api/v1/workspaces/ws-1/events/missing/progress", "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRouter_TemplateRecommendations(t *testing.T) {
	store := seedStore(t)
	store.AddTemplate(types.EventTemplate{
		ID: "tpl-1", Name: "Conference Kit",
		Category: types.TemplateCategoryConference, Complexity: types.TemplateComplexityModerate,
		EventSizeRange: types.EventSizeRange{Min: 50, Max: 200},
		Effectiveness:  types.TemplateEffectiveness{CompletionRate: 85},
		Metadata:       types.TemplateMetadata{OrganizationID: "org-1"},
	})
	handler := newTestRouter(t, store, allowAllOracle{})

	rec := doRequest(handler, http.MethodGet,
		"/api/v1/workspaces/ws-1/events/evt-1/template-recommendations?limit=5", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []types.TemplateRecommendation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "tpl-1", envelope.Data[0].Template.ID)

	bad := doRequest(handler, http.MethodGet,
		"/api/v1/workspaces/ws-1/events/evt-1/template-recommendations?limit=lots", "user-1")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRouter_RateLimiting(t *testing.T) {
	sw := ratelimit.NewSlidingWindow(1)
	defer sw.Close()

	logger := logging.NewNoOpLogger()
	service := coordination.NewService(seedStore(t), allowAllOracle{}, milestones.NewGenerator(),
		notify.NewLogSink(logger), logger)
	handler := NewRouter(config.DefaultConfig(), service, nil, sw, logger).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/ws-1/events/evt-1/milestones", nil)
	req.Header.Set("X-User-ID", "user-1")
	req.RemoteAddr = "10.0.0.7:40000"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
