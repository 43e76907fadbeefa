// Package analytics computes read-only progress reports over an event's
// milestones and tasks: aggregate completion, per-milestone status, an
// approximated critical path, and structured risk findings.
package analytics

import (
	"time"

	"showrunner/pkg/types"
)

// relatedTaskTable maps a milestone type to the task categories counted
// toward its progress. It is deliberately broader than the timeline package's
// matchTable (for example registration-open also picks up marketing tasks)
// and the two tables must stay separate.
var relatedTaskTable = map[types.MilestoneType][]types.TaskCategory{
	types.MilestoneRegistrationOpen:  {types.TaskCategoryRegistration, types.TaskCategoryMarketing},
	types.MilestoneRegistrationClose: {types.TaskCategoryRegistration},
	types.MilestoneMarketingLaunch:   {types.TaskCategoryMarketing},
	types.MilestoneVenueBooking:      {types.TaskCategorySetup, types.TaskCategoryLogistics},
	types.MilestoneFinalPreparations: {types.TaskCategorySetup, types.TaskCategoryLogistics, types.TaskCategoryTechnical},
	types.MilestoneEventStart:        {types.TaskCategoryTechnical, types.TaskCategorySetup},
	types.MilestoneEventEnd:          {types.TaskCategoryTechnical, types.TaskCategoryLogistics},
	types.MilestonePostEventCleanup:  {types.TaskCategoryPostEvent, types.TaskCategoryLogistics},
}

// Aggregator builds progress reports. All methods are pure over their inputs
// and safe for concurrent use.
type Aggregator struct {
	estimator *CriticalPathEstimator
	detector  *RiskDetector
}

// NewAggregator creates a progress aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		estimator: NewCriticalPathEstimator(),
		detector:  NewRiskDetector(),
	}
}

// Report assembles the full progress report for one event. The report is
// ephemeral: built fresh on every call, never persisted, no mutation of the
// inputs.
func (a *Aggregator) Report(workspace *types.Workspace, event *types.Event, tasks []types.Task, milestones []types.Milestone) *types.ProgressReport {
	now := time.Now()
	return &types.ProgressReport{
		WorkspaceID:       workspace.ID,
		EventID:           event.ID,
		OverallProgress:   a.overallProgress(tasks),
		MilestoneProgress: a.milestoneProgress(tasks, milestones, now),
		CriticalPath:      a.estimator.Estimate(tasks, now),
		RiskFactors:       a.detector.Detect(tasks, milestones, now),
		GeneratedAt:       now,
	}
}

// overallProgress is the completed share of all tasks, 0 when there are none
func (a *Aggregator) overallProgress(tasks []types.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for i := range tasks {
		if tasks[i].Status == types.TaskStatusCompleted {
			completed++
		}
	}
	return 100 * float64(completed) / float64(len(tasks))
}

func (a *Aggregator) milestoneProgress(tasks []types.Task, milestones []types.Milestone, now time.Time) []types.MilestoneProgress {
	result := make([]types.MilestoneProgress, 0, len(milestones))

	for i := range milestones {
		milestone := &milestones[i]
		related := relatedTasks(tasks, milestone)

		completed := 0
		for _, task := range related {
			if task.Status == types.TaskStatusCompleted {
				completed++
			}
		}

		progress := 0.0
		if len(related) > 0 {
			progress = 100 * float64(completed) / float64(len(related))
		}

		result = append(result, types.MilestoneProgress{
			MilestoneID:    milestone.ID,
			Name:           milestone.Name,
			Type:           milestone.Type,
			DueDate:        milestone.DueDate,
			Progress:       progress,
			Status:         milestoneStatus(progress, milestone.DueDate, now),
			TotalTasks:     len(related),
			CompletedTasks: completed,
		})
	}

	return result
}

// relatedTasks is the union of tasks explicitly stamped with the milestone's
// ID and tasks whose category the relatedTaskTable maps to the milestone type
func relatedTasks(tasks []types.Task, milestone *types.Milestone) []types.Task {
	categories := make(map[types.TaskCategory]bool)
	for _, c := range relatedTaskTable[milestone.Type] {
		categories[c] = true
	}

	related := make([]types.Task, 0)
	for i := range tasks {
		task := &tasks[i]
		if task.Metadata.StampedMilestoneID() == milestone.ID || categories[task.Category] {
			related = append(related, *task)
		}
	}
	return related
}

// milestoneStatus derives the milestone state, evaluated in priority order:
// fully complete, then any progress, then past due, then untouched
func milestoneStatus(progress float64, dueDate time.Time, now time.Time) types.MilestoneStatus {
	switch {
	case progress == 100:
		return types.MilestoneStatusCompleted
	case progress > 0:
		return types.MilestoneStatusInProgress
	case now.After(dueDate):
		return types.MilestoneStatusOverdue
	default:
		return types.MilestoneStatusNotStarted
	}
}
