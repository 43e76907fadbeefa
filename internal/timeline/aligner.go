package timeline

import (
	"context"

	"showrunner/pkg/types"
)

// TaskWriter applies a single task mutation to the external store
type TaskWriter interface {
	UpdateTask(ctx context.Context, mutation types.TaskMutation) error
}

// Aligner detects task due dates that overshoot their matched milestone and
// produces the corrections. Planning is pure; applying the corrections goes
// through an injected TaskWriter, one write per task.
type Aligner struct {
	matcher *Matcher
}

// NewAligner creates a deadline aligner
func NewAligner() *Aligner {
	return &Aligner{matcher: NewMatcher()}
}

// PlanAlignment returns the intended mutations for every task whose due date
// falls strictly after its matched milestone's due date. The new due date is
// one day before the milestone, and the mutation stamps alignment provenance
// (aligned milestone ID plus the original due date) into task metadata.
//
// Planning is idempotent: a task already due on or before its milestone, or
// without a match, or without a due date, produces no mutation. Running the
// plan against already-corrected tasks yields an empty plan.
func (a *Aligner) PlanAlignment(tasks []types.Task, milestones []types.Milestone) []types.TaskMutation {
	mutations := make([]types.TaskMutation, 0)

	for i := range tasks {
		task := &tasks[i]
		if task.DueDate == nil {
			continue
		}
		milestone := a.matcher.Match(task, milestones)
		if milestone == nil {
			continue
		}
		if !task.DueDate.After(milestone.DueDate) {
			continue
		}

		newDue := milestone.DueDate.AddDate(0, 0, -1)
		original := *task.DueDate
		metadata := task.Metadata
		metadata.AlignedMilestone = milestone.ID
		metadata.OriginalDueDate = &original

		mutations = append(mutations, types.TaskMutation{
			TaskID:     task.ID,
			NewDueDate: &newDue,
			Metadata:   &metadata,
		})
	}

	return mutations
}

// PlanRealignment reruns alignment against a regenerated milestone set, but
// only for tasks that already carry an alignment stamp. Tasks never aligned
// before are not retroactively aligned by this path; that is the initial
// synchronization's job.
func (a *Aligner) PlanRealignment(tasks []types.Task, milestones []types.Milestone) []types.TaskMutation {
	stamped := make([]types.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Metadata.IsAligned() {
			stamped = append(stamped, tasks[i])
		}
	}
	return a.PlanAlignment(stamped, milestones)
}

// Apply writes the planned mutations through the task writer sequentially.
// Semantics are at-least-once with no rollback: a failure partway leaves
// earlier writes committed, and the error reports how many were applied.
// Callers that can race two synchronizations over the same workspace must
// serialize them; the aligner does not.
func (a *Aligner) Apply(ctx context.Context, writer TaskWriter, mutations []types.TaskMutation) (int, error) {
	for i, mutation := range mutations {
		if err := writer.UpdateTask(ctx, mutation); err != nil {
			return i, err
		}
	}
	return len(mutations), nil
}
