package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"showrunner/internal/milestones"
	"showrunner/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureWriter records mutations instead of hitting a real store
type captureWriter struct {
	applied []types.TaskMutation
	failAt  int // fail on the nth write (1-based), 0 disables
}

func (w *captureWriter) UpdateTask(_ context.Context, mutation types.TaskMutation) error {
	if w.failAt > 0 && len(w.applied)+1 == w.failAt {
		return errors.New("store unavailable")
	}
	w.applied = append(w.applied, mutation)
	return nil
}

func TestPlanAlignment_CorrectsOvershootingDueDate(t *testing.T) {
	timeline := milestones.NewGenerator().Generate(march2024Event())
	aligner := NewAligner()

	due := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	tasks := []types.Task{{
		ID:       "task-1",
		Category: types.TaskCategoryLogistics,
		Status:   types.TaskStatusInProgress,
		Priority: types.TaskPriorityHigh,
		DueDate:  &due,
	}}

	plan := aligner.PlanAlignment(tasks, timeline)
	require.Len(t, plan, 1)

	mutation := plan[0]
	assert.Equal(t, "task-1", mutation.TaskID)
	// Final preparations (start − 3 days) is the nearest logistics milestone;
	// the corrected due date sits one day before it.
	finalPrep := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, mutation.NewDueDate)
	assert.Equal(t, finalPrep.AddDate(0, 0, -1), *mutation.NewDueDate)

	require.NotNil(t, mutation.Metadata)
	assert.Equal(t, milestones.SlugFinalPreparations, mutation.Metadata.AlignedMilestone)
	require.NotNil(t, mutation.Metadata.OriginalDueDate)
	assert.Equal(t, due, *mutation.Metadata.OriginalDueDate)
}

func TestPlanAlignment_LeavesCompliantTasksAlone(t *testing.T) {
	timeline := milestones.NewGenerator().Generate(march2024Event())
	aligner := NewAligner()

	onMilestone := time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC) // venue booking due date
	before := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	tasks := []types.Task{
		{ID: "exact", Category: types.TaskCategoryLogistics, DueDate: &onMilestone},
		{ID: "early", Category: types.TaskCategoryLogistics, DueDate: &before},
		{ID: "no-due", Category: types.TaskCategoryLogistics},
		{ID: "no-match", Category: types.TaskCategory("catering"), DueDate: &onMilestone},
	}

	assert.Empty(t, aligner.PlanAlignment(tasks, timeline))
}

func TestPlanAlignment_Idempotent(t *testing.T) {
	timeline := milestones.NewGenerator().Generate(march2024Event())
	aligner := NewAligner()

	due := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	tasks := []types.Task{{
		ID:       "task-1",
		Category: types.TaskCategoryLogistics,
		DueDate:  &due,
	}}

	first := aligner.PlanAlignment(tasks, timeline)
	require.Len(t, first, 1)

	// Simulate the applied write, then plan again.
	tasks[0].DueDate = first[0].NewDueDate
	tasks[0].Metadata = *first[0].Metadata

	second := aligner.PlanAlignment(tasks, timeline)
	assert.Empty(t, second, "second run must produce no further corrections")
}

func TestPlanRealignment_OnlyTouchesStampedTasks(t *testing.T) {
	aligner := NewAligner()

	// Event dates moved earlier: regenerate milestones.
	event := march2024Event()
	shifted := event.StartDate.AddDate(0, 0, -10)
	event.StartDate = shifted
	newEnd := event.EndDate.AddDate(0, 0, -10)
	event.EndDate = &newEnd
	timeline := milestones.NewGenerator().Generate(event)

	due := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	original := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tasks := []types.Task{
		{
			ID:       "stamped",
			Category: types.TaskCategoryLogistics,
			DueDate:  &due,
			Metadata: types.TaskMetadata{AlignedMilestone: milestones.SlugFinalPreparations, OriginalDueDate: &original},
		},
		{
			ID:       "never-aligned",
			Category: types.TaskCategoryLogistics,
			DueDate:  &due,
		},
	}

	plan := aligner.PlanRealignment(tasks, timeline)
	require.Len(t, plan, 1)
	assert.Equal(t, "stamped", plan[0].TaskID)
}

func TestApply_BestEffortOnFailure(t *testing.T) {
	aligner := NewAligner()
	writer := &captureWriter{failAt: 2}

	due := time.Now()
	plan := []types.TaskMutation{
		{TaskID: "a", NewDueDate: &due},
		{TaskID: "b", NewDueDate: &due},
		{TaskID: "c", NewDueDate: &due},
	}

	applied, err := aligner.Apply(context.Background(), writer, plan)
	require.Error(t, err)
	assert.Equal(t, 1, applied)
	// The first write stays committed; there is no rollback.
	require.Len(t, writer.applied, 1)
	assert.Equal(t, "a", writer.applied[0].TaskID)
}

func TestApply_AllWrites(t *testing.T) {
	aligner := NewAligner()
	writer := &captureWriter{}

	due := time.Now()
	plan := []types.TaskMutation{
		{TaskID: "a", NewDueDate: &due},
		{TaskID: "b", NewDueDate: &due},
	}

	applied, err := aligner.Apply(context.Background(), writer, plan)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Len(t, writer.applied, 2)
}
