// Package timeline aligns tasks to the derived milestone timeline: it matches
// each task to its best-fit milestone and corrects due dates that overshoot
// the milestone they belong to.
package timeline

import (
	"time"

	"showrunner/pkg/types"
)

// matchTable maps a task category to the milestone types it may attach to.
// This is the narrow table used for best-fit matching; the progress
// aggregator uses a separate, broader relatedTaskTable and the two must not
// be merged.
var matchTable = map[types.TaskCategory][]types.MilestoneType{
	types.TaskCategorySetup:        {types.MilestoneVenueBooking, types.MilestoneFinalPreparations},
	types.TaskCategoryMarketing:    {types.MilestoneMarketingLaunch, types.MilestoneRegistrationOpen},
	types.TaskCategoryLogistics:    {types.MilestoneVenueBooking, types.MilestoneFinalPreparations},
	types.TaskCategoryTechnical:    {types.MilestoneFinalPreparations, types.MilestoneEventStart},
	types.TaskCategoryRegistration: {types.MilestoneRegistrationOpen, types.MilestoneRegistrationClose},
	types.TaskCategoryPostEvent:    {types.MilestonePostEventCleanup},
}

// Matcher maps tasks to their best-fit milestone
type Matcher struct{}

// NewMatcher creates a task-milestone matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match returns the best-fit milestone for a task, or nil when the task's
// category allows none of the given milestones.
//
// When the task has a due date the filtered milestone with the nearest due
// date (by absolute difference) wins; ties keep the first candidate in
// generator emission order. Without a due date the first filtered milestone
// wins outright.
func (m *Matcher) Match(task *types.Task, milestones []types.Milestone) *types.Milestone {
	allowed, ok := matchTable[task.Category]
	if !ok {
		return nil
	}

	allowedSet := make(map[types.MilestoneType]bool, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = true
	}

	var best *types.Milestone
	for i := range milestones {
		candidate := &milestones[i]
		if !allowedSet[candidate.Type] {
			continue
		}
		if best == nil {
			best = candidate
			continue
		}
		if task.DueDate == nil {
			// First filtered milestone wins when the task has no due date.
			continue
		}
		if absDuration(candidate.DueDate.Sub(*task.DueDate)) < absDuration(best.DueDate.Sub(*task.DueDate)) {
			best = candidate
		}
	}

	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
