// Package types provides the shared data structures for event timeline
// synchronization and progress analytics.
package types

import (
	"time"
)

// Workspace represents the organizing workspace an event belongs to
type Workspace struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Event represents a live-production event with its fixed timeline
type Event struct {
	ID                   string     `json:"id"`
	WorkspaceID          string     `json:"workspace_id"`
	OrganizationID       string     `json:"organization_id"`
	Title                string     `json:"title"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Capacity             *int       `json:"capacity,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// DefaultEventCapacity is assumed when an event does not declare capacity
const DefaultEventCapacity = 100

// EffectiveCapacity returns the declared capacity or the default
func (e *Event) EffectiveCapacity() int {
	if e.Capacity != nil {
		return *e.Capacity
	}
	return DefaultEventCapacity
}

// EffectiveEndDate returns the declared end date, falling back to the start
// date when none was given
func (e *Event) EffectiveEndDate() time.Time {
	if e.EndDate != nil {
		return *e.EndDate
	}
	return e.StartDate
}

// DurationDays returns the event duration in whole days, minimum 1 when no
// end date is declared. A negative result is possible when the end date
// precedes the start date; that ordering is intentionally not validated.
func (e *Event) DurationDays() int {
	if e.EndDate == nil {
		return 1
	}
	return int(e.EndDate.Sub(e.StartDate).Hours() / 24)
}
