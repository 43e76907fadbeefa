package types

import (
	"time"
)

// Task represents a production task tracked against the event timeline
type Task struct {
	ID           string       `json:"id"`
	WorkspaceID  string       `json:"workspace_id"`
	EventID      string       `json:"event_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Category     TaskCategory `json:"category"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	Assignee     string       `json:"assignee,omitempty"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"` // Task IDs this task depends on
	Metadata     TaskMetadata `json:"metadata"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TaskCategory represents the kind of production work a task covers
type TaskCategory string

const (
	TaskCategorySetup        TaskCategory = "setup"
	TaskCategoryMarketing    TaskCategory = "marketing"
	TaskCategoryLogistics    TaskCategory = "logistics"
	TaskCategoryTechnical    TaskCategory = "technical"
	TaskCategoryRegistration TaskCategory = "registration"
	TaskCategoryPostEvent    TaskCategory = "post_event"
)

// TaskStatus represents task lifecycle states
type TaskStatus string

const (
	TaskStatusNotStarted     TaskStatus = "not_started"
	TaskStatusInProgress     TaskStatus = "in_progress"
	TaskStatusReviewRequired TaskStatus = "review_required"
	TaskStatusCompleted      TaskStatus = "completed"
	TaskStatusBlocked        TaskStatus = "blocked"
)

// TaskPriority represents task priority levels
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsCritical reports whether the priority is high or urgent
func (p TaskPriority) IsCritical() bool {
	return p == TaskPriorityHigh || p == TaskPriorityUrgent
}

// TaskMetadata carries the known extension fields stamped onto a task.
// The alignment fields record provenance when the deadline aligner rewrites
// a due date; the template fields record provenance when a task was created
// from a template.
type TaskMetadata struct {
	AlignedMilestone string            `json:"aligned_milestone,omitempty"`
	MilestoneID      string            `json:"milestone_id,omitempty"`
	OriginalDueDate  *time.Time        `json:"original_due_date,omitempty"`
	TemplateID       string            `json:"template_id,omitempty"`
	Customization    map[string]string `json:"customization,omitempty"`
}

// IsAligned reports whether the task has ever been deadline-aligned
func (m TaskMetadata) IsAligned() bool {
	return m.AlignedMilestone != ""
}

// StampedMilestoneID returns the milestone the task is pinned to, preferring
// an explicit milestone assignment over alignment provenance
func (m TaskMetadata) StampedMilestoneID() string {
	if m.MilestoneID != "" {
		return m.MilestoneID
	}
	return m.AlignedMilestone
}

// TaskMutation is an intended update to a task, produced by the deadline
// aligner and applied through a task writer. Only non-nil fields are written.
type TaskMutation struct {
	TaskID     string        `json:"task_id"`
	NewDueDate *time.Time    `json:"new_due_date,omitempty"`
	Metadata   *TaskMetadata `json:"metadata,omitempty"`
	Priority   *TaskPriority `json:"priority,omitempty"`
}
