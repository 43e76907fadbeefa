package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "showrunner/internal/errors"
	"showrunner/pkg/types"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func testEvent() *types.Event {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	deadline := time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)
	capacity := 150
	return &types.Event{
		ID:                   "evt-1",
		WorkspaceID:          "ws-1",
		OrganizationID:       "org-1",
		Title:                "Spring Summit",
		StartDate:            start,
		EndDate:              &end,
		RegistrationDeadline: &deadline,
		Capacity:             &capacity,
		CreatedAt:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEventRepository_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := testEvent()
	require.NoError(t, store.Events().Create(ctx, event))

	got, err := store.GetEvent(ctx, "ws-1", "evt-1")
	require.NoError(t, err)
	assert.Equal(t, event.Title, got.Title)
	assert.True(t, got.StartDate.Equal(event.StartDate))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(*event.EndDate))
	require.NotNil(t, got.Capacity)
	assert.Equal(t, 150, *got.Capacity)
}

func TestEventRepository_WorkspaceScoping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Events().Create(ctx, testEvent()))

	_, err := store.GetEvent(ctx, "ws-other", "evt-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTaskRepository_UpdateTaskAppliesOnlySetFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	task := &types.Task{
		ID:           "task-1",
		WorkspaceID:  "ws-1",
		EventID:      "evt-1",
		Title:        "Book the venue",
		Category:     types.TaskCategoryLogistics,
		Status:       types.TaskStatusInProgress,
		Priority:     types.TaskPriorityHigh,
		DueDate:      &due,
		Dependencies: []string{"task-0"},
		CreatedAt:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Tasks().Create(ctx, task))

	newDue := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)
	meta := &types.TaskMetadata{
		AlignedMilestone: "final-preparations",
		OriginalDueDate:  &due,
	}
	require.NoError(t, store.UpdateTask(ctx, types.TaskMutation{
		TaskID:     "task-1",
		NewDueDate: &newDue,
		Metadata:   meta,
	}))

	got, err := store.Tasks().GetByID(ctx, "task-1")
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(newDue))
	assert.Equal(t, "final-preparations", got.Metadata.AlignedMilestone)
	require.NotNil(t, got.Metadata.OriginalDueDate)
	assert.True(t, got.Metadata.OriginalDueDate.Equal(due))
	// fields not named by the mutation are untouched
	assert.Equal(t, types.TaskPriorityHigh, got.Priority)
	assert.Equal(t, types.TaskStatusInProgress, got.Status)
	assert.Equal(t, []string{"task-0"}, got.Dependencies)
}

func TestTaskRepository_UpdateTaskMissing(t *testing.T) {
	store := newTestStore(t)

	due := time.Now()
	err := store.UpdateTask(context.Background(), types.TaskMutation{
		TaskID:     "nope",
		NewDueDate: &due,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTaskRepository_ListByEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"task-a", "task-b"} {
		require.NoError(t, store.Tasks().Create(ctx, &types.Task{
			ID:          id,
			WorkspaceID: "ws-1",
			EventID:     "evt-1",
			Title:       id,
			Category:    types.TaskCategorySetup,
			Status:      types.TaskStatusNotStarted,
			Priority:    types.TaskPriorityMedium,
			CreatedAt:   time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC),
		}))
	}
	require.NoError(t, store.Tasks().Create(ctx, &types.Task{
		ID: "task-other", WorkspaceID: "ws-1", EventID: "evt-2",
		Title: "other", Category: types.TaskCategorySetup,
		Status: types.TaskStatusNotStarted, Priority: types.TaskPriorityLow,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	tasks, err := store.ListTasksByEvent(ctx, "evt-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "task-a", tasks[0].ID)
	assert.Equal(t, "task-b", tasks[1].ID)
}

func TestTemplateRepository_ListCandidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	templates := []types.EventTemplate{
		{
			ID: "tpl-own", Name: "Conference Kit",
			Category: types.TemplateCategoryConference, Complexity: types.TemplateComplexityModerate,
			EventSizeRange: types.EventSizeRange{Min: 100, Max: 200},
			Roles:          []string{"producer", "stage-manager"},
			TaskCategories: []types.TaskCategory{types.TaskCategoryLogistics},
			Channels:       []string{"#production"},
			Effectiveness:  types.TemplateEffectiveness{CompletionRate: 85, TimesApplied: 4},
			Metadata:       types.TemplateMetadata{OrganizationID: "org-1"},
			CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "tpl-public", Name: "Meetup Starter",
			Category: types.TemplateCategoryMeetup, Complexity: types.TemplateComplexitySimple,
			EventSizeRange: types.EventSizeRange{Min: 10, Max: 50},
			Metadata:       types.TemplateMetadata{OrganizationID: "org-2", IsPublic: true},
			CreatedAt:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "tpl-private-other", Name: "Internal Gala",
			Category: types.TemplateCategoryGeneral, Complexity: types.TemplateComplexityComplex,
			EventSizeRange: types.EventSizeRange{Min: 200, Max: 500},
			Metadata:       types.TemplateMetadata{OrganizationID: "org-2"},
			CreatedAt:      time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}
	for i := range templates {
		require.NoError(t, store.Templates().Create(ctx, &templates[i]))
	}

	got, err := store.ListCandidateTemplates(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tpl-own", got[0].ID)
	assert.Equal(t, "tpl-public", got[1].ID)
	assert.Equal(t, []string{"producer", "stage-manager"}, got[0].Roles)
	assert.InDelta(t, 85.0, got[0].Effectiveness.CompletionRate, 0.001)
}

func TestTemplateRepository_RecordApplication(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Templates().Create(ctx, &types.EventTemplate{
		ID: "tpl-1", Name: "Kit",
		Category: types.TemplateCategoryGeneral, Complexity: types.TemplateComplexitySimple,
		EventSizeRange: types.EventSizeRange{Min: 1, Max: 10},
		CreatedAt:      time.Now(),
	}))

	require.NoError(t, store.Templates().RecordApplication(ctx, "tpl-1"))
	require.NoError(t, store.Templates().RecordApplication(ctx, "tpl-1"))

	got, err := store.Templates().GetByID(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Effectiveness.TimesApplied)

	assert.True(t, apperrors.IsNotFound(store.Templates().RecordApplication(ctx, "missing")))
}

func TestMockStore_CapturesMutations(t *testing.T) {
	mock := NewMockStore()
	ctx := context.Background()

	due := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	mock.AddTask(&types.Task{ID: "task-1", EventID: "evt-1", DueDate: &due})

	newDue := due.AddDate(0, 0, 6)
	require.NoError(t, mock.UpdateTask(ctx, types.TaskMutation{TaskID: "task-1", NewDueDate: &newDue}))

	require.Len(t, mock.Applied, 1)
	assert.Equal(t, "task-1", mock.Applied[0].TaskID)
	got := mock.Task("task-1")
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(newDue))
}

func TestMockStore_FailUpdateAt(t *testing.T) {
	mock := NewMockStore()
	mock.FailUpdateAt = 2
	mock.AddTask(&types.Task{ID: "task-1", EventID: "evt-1"})

	due := time.Now()
	require.NoError(t, mock.UpdateTask(context.Background(), types.TaskMutation{TaskID: "task-1", NewDueDate: &due}))
	assert.Error(t, mock.UpdateTask(context.Background(), types.TaskMutation{TaskID: "task-1", NewDueDate: &due}))
	assert.Len(t, mock.Applied, 1)
}
