package analytics

import (
	"testing"
	"time"

	"showrunner/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_NoRisks(t *testing.T) {
	detector := NewRiskDetector()
	now := time.Now()
	future := now.AddDate(0, 0, 5)

	tasks := []types.Task{
		{ID: "a", Status: types.TaskStatusInProgress, Priority: types.TaskPriorityHigh, DueDate: &future},
		{ID: "b", Status: types.TaskStatusCompleted, Priority: types.TaskPriorityUrgent},
	}

	assert.Empty(t, detector.Detect(tasks, nil, now))
}

func TestDetect_OverdueTasks(t *testing.T) {
	detector := NewRiskDetector()
	now := time.Now()
	past := now.AddDate(0, 0, -2)

	t.Run("medium severity without critical overdue", func(t *testing.T) {
		tasks := []types.Task{
			{ID: "a", Status: types.TaskStatusInProgress, Priority: types.TaskPriorityLow, DueDate: &past},
		}
		risks := detector.Detect(tasks, nil, now)
		require.Len(t, risks, 1)
		assert.Equal(t, types.RiskOverdueTasks, risks[0].Type)
		assert.Equal(t, types.RiskSeverityMedium, risks[0].Severity)
		assert.Len(t, risks[0].Mitigation, 4)
	})

	t.Run("high severity with critical overdue", func(t *testing.T) {
		tasks := []types.Task{
			{ID: "a", Status: types.TaskStatusInProgress, Priority: types.TaskPriorityLow, DueDate: &past},
			{ID: "b", Status: types.TaskStatusNotStarted, Priority: types.TaskPriorityUrgent, DueDate: &past},
		}
		risks := detector.Detect(tasks, nil, now)
		require.Len(t, risks, 1)
		assert.Equal(t, types.RiskSeverityHigh, risks[0].Severity)
		assert.Contains(t, risks[0].Description, "2 tasks are overdue")
		assert.Contains(t, risks[0].Description, "1 of them high priority")
	})

	t.Run("completed overdue tasks do not count", func(t *testing.T) {
		tasks := []types.Task{
			{ID: "a", Status: types.TaskStatusCompleted, Priority: types.TaskPriorityHigh, DueDate: &past},
		}
		assert.Empty(t, detector.Detect(tasks, nil, now))
	})
}

func TestDetect_SeverityMonotonicity(t *testing.T) {
	detector := NewRiskDetector()
	now := time.Now()
	past := now.AddDate(0, 0, -1)

	tasks := []types.Task{
		{ID: "a", Status: types.TaskStatusInProgress, Priority: types.TaskPriorityLow, DueDate: &past},
	}
	base := detector.Detect(tasks, nil, now)
	require.Len(t, base, 1)
	assert.Equal(t, types.RiskSeverityMedium, base[0].Severity)

	// Adding an overdue high-priority task can only raise severity.
	tasks = append(tasks, types.Task{
		ID: "b", Status: types.TaskStatusInProgress, Priority: types.TaskPriorityHigh, DueDate: &past,
	})
	escalated := detector.Detect(tasks, nil, now)
	require.Len(t, escalated, 1)
	assert.Equal(t, types.RiskSeverityHigh, escalated[0].Severity)
}

func TestDetect_BlockedCritical(t *testing.T) {
	detector := NewRiskDetector()
	now := time.Now()

	t.Run("blocked high priority triggers critical severity", func(t *testing.T) {
		tasks := []types.Task{
			{ID: "a", Status: types.TaskStatusBlocked, Priority: types.TaskPriorityHigh},
		}
		risks := detector.Detect(tasks, nil, now)
		require.Len(t, risks, 1)
		assert.Equal(t, types.RiskBlockedCritical, risks[0].Type)
		assert.Equal(t, types.RiskSeverityCritical, risks[0].Severity)
		assert.Len(t, risks[0].Mitigation, 4)
	})

	t.Run("blocked low priority does not trigger", func(t *testing.T) {
		tasks := []types.Task{
			{ID: "a", Status: types.TaskStatusBlocked, Priority: types.TaskPriorityLow},
		}
		assert.Empty(t, detector.Detect(tasks, nil, now))
	})
}

func TestDetect_OrderingOverdueFirst(t *testing.T) {
	detector := NewRiskDetector()
	now := time.Now()
	past := now.AddDate(0, 0, -1)

	tasks := []types.Task{
		{ID: "a", Status: types.TaskStatusInProgress, Priority: types.TaskPriorityLow, DueDate: &past},
		{ID: "b", Status: types.TaskStatusBlocked, Priority: types.TaskPriorityUrgent},
	}

	risks := detector.Detect(tasks, nil, now)
	require.Len(t, risks, 2)
	assert.Equal(t, types.RiskOverdueTasks, risks[0].Type)
	assert.Equal(t, types.RiskBlockedCritical, risks[1].Type)
}
