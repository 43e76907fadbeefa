package types

import (
	"time"
)

// ProgressReport is the aggregate progress view for one event. It is built
// fresh on every request and never persisted.
type ProgressReport struct {
	WorkspaceID       string              `json:"workspace_id"`
	EventID           string              `json:"event_id"`
	OverallProgress   float64             `json:"overall_progress"` // 0-100
	MilestoneProgress []MilestoneProgress `json:"milestone_progress"`
	CriticalPath      []CriticalPathEntry `json:"critical_path"`
	RiskFactors       []RiskFactor        `json:"risk_factors"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// MilestoneProgress is the per-milestone completion slice of a report
type MilestoneProgress struct {
	MilestoneID    string          `json:"milestone_id"`
	Name           string          `json:"name"`
	Type           MilestoneType   `json:"type"`
	DueDate        time.Time       `json:"due_date"`
	Progress       float64         `json:"progress"` // 0-100
	Status         MilestoneStatus `json:"status"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
}

// MilestoneStatus represents the derived state of a milestone
type MilestoneStatus string

const (
	MilestoneStatusNotStarted MilestoneStatus = "not_started"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusOverdue    MilestoneStatus = "overdue"
)

// CriticalPathEntry is one task on the approximated critical path, ranked by
// slack. Slack is days of buffer between now and the task's due date; a task
// without a due date carries zero slack and sorts first.
type CriticalPathEntry struct {
	TaskID       string     `json:"task_id"`
	TaskTitle    string     `json:"task_title"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Dependencies []string   `json:"dependencies,omitempty"`
	SlackDays    int        `json:"slack_days"`
}

// RiskFactor is a structured risk finding over the event's task set
type RiskFactor struct {
	Type        RiskType     `json:"type"`
	Severity    RiskSeverity `json:"severity"`
	Description string       `json:"description"`
	Impact      string       `json:"impact"`
	Mitigation  []string     `json:"mitigation"`
}

// RiskType enumerates the risk taxonomy. ResourceShortage and DependencyDelay
// are declared for API compatibility but no detector produces them yet.
type RiskType string

const (
	RiskOverdueTasks     RiskType = "overdue_tasks"
	RiskBlockedCritical  RiskType = "blocked_critical"
	RiskResourceShortage RiskType = "resource_shortage"
	RiskDependencyDelay  RiskType = "dependency_delay"
)

// RiskSeverity represents risk severity levels
type RiskSeverity string

const (
	RiskSeverityLow      RiskSeverity = "low"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityCritical RiskSeverity = "critical"
)
