package analytics

import (
	"fmt"
	"testing"
	"time"

	"showrunner/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_CandidateSelection(t *testing.T) {
	estimator := NewCriticalPathEstimator()
	now := time.Now()
	due := now.AddDate(0, 0, 5)

	tasks := []types.Task{
		{ID: "high", Priority: types.TaskPriorityHigh, DueDate: &due},
		{ID: "urgent", Priority: types.TaskPriorityUrgent, DueDate: &due},
		{ID: "dependent", Priority: types.TaskPriorityLow, Dependencies: []string{"high"}, DueDate: &due},
		{ID: "plain", Priority: types.TaskPriorityMedium, DueDate: &due},
	}

	path := estimator.Estimate(tasks, now)
	ids := make([]string, 0, len(path))
	for _, entry := range path {
		ids = append(ids, entry.TaskID)
	}
	assert.ElementsMatch(t, []string{"high", "urgent", "dependent"}, ids)
}

func TestEstimate_SlackOrdering(t *testing.T) {
	estimator := NewCriticalPathEstimator()
	now := time.Now()

	farDue := now.AddDate(0, 0, 20)
	nearDue := now.AddDate(0, 0, 2)
	pastDue := now.AddDate(0, 0, -4)

	tasks := []types.Task{
		{ID: "far", Priority: types.TaskPriorityHigh, DueDate: &farDue},
		{ID: "near", Priority: types.TaskPriorityHigh, DueDate: &nearDue},
		{ID: "no-due", Priority: types.TaskPriorityUrgent},
		{ID: "overdue", Priority: types.TaskPriorityHigh, DueDate: &pastDue},
	}

	path := estimator.Estimate(tasks, now)
	require.Len(t, path, 4)

	// Zero-slack tasks first (no due date and overdue both floor at zero),
	// then ascending slack.
	assert.Equal(t, 0, path[0].SlackDays)
	assert.Equal(t, 0, path[1].SlackDays)
	assert.ElementsMatch(t, []string{"no-due", "overdue"}, []string{path[0].TaskID, path[1].TaskID})
	assert.Equal(t, "near", path[2].TaskID)
	assert.Equal(t, "far", path[3].TaskID)
}

func TestEstimate_TruncatesToTen(t *testing.T) {
	estimator := NewCriticalPathEstimator()
	now := time.Now()

	tasks := make([]types.Task, 0, 15)
	for i := 0; i < 15; i++ {
		due := now.AddDate(0, 0, i+1)
		tasks = append(tasks, types.Task{
			ID:       fmt.Sprintf("task-%d", i),
			Priority: types.TaskPriorityHigh,
			DueDate:  &due,
		})
	}

	path := estimator.Estimate(tasks, now)
	assert.Len(t, path, 10)
	// The ten smallest slacks survive.
	assert.Equal(t, "task-0", path[0].TaskID)
	assert.Equal(t, "task-9", path[9].TaskID)
}

func TestSlackDays(t *testing.T) {
	now := time.Now()

	t.Run("nil due date is maximally urgent", func(t *testing.T) {
		assert.Equal(t, 0, slackDays(nil, now))
	})

	t.Run("past due floors at zero", func(t *testing.T) {
		past := now.AddDate(0, 0, -3)
		assert.Equal(t, 0, slackDays(&past, now))
	})

	t.Run("whole days are floored", func(t *testing.T) {
		due := now.Add(36 * time.Hour)
		assert.Equal(t, 1, slackDays(&due, now))
	})
}
