// Package storage provides event, task, and template data access backed by a
// SQL database.
package storage

import (
	"context"

	"showrunner/pkg/types"
)

// EventStore provides read access to events
type EventStore interface {
	// GetEvent retrieves an event scoped to a workspace
	GetEvent(ctx context.Context, workspaceID, eventID string) (*types.Event, error)
}

// TaskStore provides task access and accepts intended mutations
type TaskStore interface {
	// ListTasksByEvent retrieves all tasks for an event
	ListTasksByEvent(ctx context.Context, eventID string) ([]types.Task, error)

	// UpdateTask applies a single intended mutation. Only the mutation's
	// non-nil fields are written.
	UpdateTask(ctx context.Context, mutation types.TaskMutation) error
}

// TemplateStore provides read access to event templates
type TemplateStore interface {
	// ListCandidateTemplates retrieves templates visible to an organization:
	// the organization's own templates plus public ones
	ListCandidateTemplates(ctx context.Context, organizationID string) ([]types.EventTemplate, error)
}

// Store aggregates the repositories behind a single handle
type Store interface {
	EventStore
	TaskStore
	TemplateStore
}
