package analytics

import (
	"sort"
	"time"

	"showrunner/pkg/types"
)

// maxCriticalPathEntries caps the ranked critical path length
const maxCriticalPathEntries = 10

// CriticalPathEstimator ranks tasks by slack to approximate a critical path.
// This is a ranking heuristic, not a forward/backward-pass CPM: slack is not
// propagated through the dependency graph.
type CriticalPathEstimator struct{}

// NewCriticalPathEstimator creates a critical path estimator
func NewCriticalPathEstimator() *CriticalPathEstimator {
	return &CriticalPathEstimator{}
}

// Estimate returns up to 10 candidate tasks ordered by ascending slack.
// Candidates are tasks with high or urgent priority, or with at least one
// dependency. A task without a due date is treated as due now and therefore
// maximally urgent (slack 0).
func (e *CriticalPathEstimator) Estimate(tasks []types.Task, now time.Time) []types.CriticalPathEntry {
	entries := make([]types.CriticalPathEntry, 0)

	for i := range tasks {
		task := &tasks[i]
		if !task.Priority.IsCritical() && len(task.Dependencies) == 0 {
			continue
		}
		entries = append(entries, types.CriticalPathEntry{
			TaskID:       task.ID,
			TaskTitle:    task.Title,
			DueDate:      task.DueDate,
			Dependencies: task.Dependencies,
			SlackDays:    slackDays(task.DueDate, now),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SlackDays < entries[j].SlackDays
	})

	if len(entries) > maxCriticalPathEntries {
		entries = entries[:maxCriticalPathEntries]
	}
	return entries
}

// slackDays is the whole days of buffer between now and the due date,
// floored at zero
func slackDays(dueDate *time.Time, now time.Time) int {
	if dueDate == nil {
		return 0
	}
	days := int(dueDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
