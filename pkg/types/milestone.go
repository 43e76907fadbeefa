package types

import (
	"time"
)

// Milestone is a derived checkpoint on the event timeline. Milestones are
// generated from event dates on every request and never persisted.
type Milestone struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	DueDate      time.Time         `json:"due_date"`
	Type         MilestoneType     `json:"type"`
	Priority     MilestonePriority `json:"priority"`
	Dependencies []string          `json:"dependencies,omitempty"` // Milestone IDs, earlier in emission order
}

// MilestoneType represents the canonical milestone kinds on an event timeline
type MilestoneType string

const (
	MilestoneRegistrationOpen  MilestoneType = "registration_open"
	MilestoneRegistrationClose MilestoneType = "registration_close"
	MilestoneVenueBooking      MilestoneType = "venue_booking"
	MilestoneMarketingLaunch   MilestoneType = "marketing_launch"
	MilestoneFinalPreparations MilestoneType = "final_preparations"
	MilestoneEventStart        MilestoneType = "event_start"
	MilestoneEventEnd          MilestoneType = "event_end"
	MilestonePostEventCleanup  MilestoneType = "post_event_cleanup"
)

// MilestonePriority represents milestone priority levels
type MilestonePriority string

const (
	MilestonePriorityLow      MilestonePriority = "low"
	MilestonePriorityMedium   MilestonePriority = "medium"
	MilestonePriorityHigh     MilestonePriority = "high"
	MilestonePriorityCritical MilestonePriority = "critical"
)
