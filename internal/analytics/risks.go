package analytics

import (
	"fmt"
	"time"

	"showrunner/pkg/types"
)

// RiskDetector scans tasks for overdue and blocked-critical conditions and
// emits structured risk findings
type RiskDetector struct{}

// NewRiskDetector creates a risk detector
func NewRiskDetector() *RiskDetector {
	return &RiskDetector{}
}

// Detect returns the triggered risk factors, overdue tasks first, then
// blocked critical tasks. Milestones are part of the contract for future
// detection rules (resource shortage, dependency delay) that are declared in
// the taxonomy but not produced yet.
func (d *RiskDetector) Detect(tasks []types.Task, _ []types.Milestone, now time.Time) []types.RiskFactor {
	risks := make([]types.RiskFactor, 0, 2)

	if risk := d.detectOverdue(tasks, now); risk != nil {
		risks = append(risks, *risk)
	}
	if risk := d.detectBlockedCritical(tasks); risk != nil {
		risks = append(risks, *risk)
	}

	return risks
}

func (d *RiskDetector) detectOverdue(tasks []types.Task, now time.Time) *types.RiskFactor {
	overdue := 0
	critical := 0
	for i := range tasks {
		task := &tasks[i]
		if task.DueDate == nil || task.Status == types.TaskStatusCompleted {
			continue
		}
		if task.DueDate.Before(now) {
			overdue++
			if task.Priority.IsCritical() {
				critical++
			}
		}
	}

	if overdue == 0 {
		return nil
	}

	severity := types.RiskSeverityMedium
	if critical > 0 {
		severity = types.RiskSeverityHigh
	}

	return &types.RiskFactor{
		Type:        types.RiskOverdueTasks,
		Severity:    severity,
		Description: fmt.Sprintf("%d tasks are overdue, %d of them high priority", overdue, critical),
		Impact:      "Overdue work compresses the remaining timeline and puts downstream milestones at risk",
		Mitigation: []string{
			"Reprioritize overdue tasks and clear blockers first",
			"Reassign overdue work to team members with available capacity",
			"Break large overdue tasks into smaller deliverables",
			"Escalate tasks that cannot be recovered before the next milestone",
		},
	}
}

func (d *RiskDetector) detectBlockedCritical(tasks []types.Task) *types.RiskFactor {
	blocked := 0
	for i := range tasks {
		task := &tasks[i]
		if task.Status == types.TaskStatusBlocked && task.Priority.IsCritical() {
			blocked++
		}
	}

	if blocked == 0 {
		return nil
	}

	return &types.RiskFactor{
		Type:        types.RiskBlockedCritical,
		Severity:    types.RiskSeverityCritical,
		Description: fmt.Sprintf("%d high-priority tasks are blocked", blocked),
		Impact:      "Blocked critical tasks can stall the event timeline entirely",
		Mitigation: []string{
			"Identify and resolve the blocking dependency for each task",
			"Escalate external blockers to the event lead immediately",
			"Prepare fallback plans for tasks that stay blocked",
			"Review the dependency chain for alternative sequencing",
		},
	}
}
