package storage

import (
	"context"
	"sync"

	apperrors "showrunner/internal/errors"
	"showrunner/pkg/types"
)

// MockStore is an in-memory Store for tests. It captures every mutation
// passed to UpdateTask so tests can assert on intended writes without a
// database.
type MockStore struct {
	mu        sync.Mutex
	events    map[string]*types.Event
	tasks     map[string]*types.Task
	templates []types.EventTemplate

	// Applied records mutations in apply order
	Applied []types.TaskMutation

	// FailUpdateAt makes the Nth UpdateTask call fail (1-based, 0 disables)
	FailUpdateAt int
	updateCalls  int
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		events: make(map[string]*types.Event),
		tasks:  make(map[string]*types.Task),
	}
}

// AddEvent seeds an event
func (m *MockStore) AddEvent(event *types.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
}

// AddTask seeds a task
func (m *MockStore) AddTask(task *types.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
}

// AddTemplate seeds a template
func (m *MockStore) AddTemplate(tmpl types.EventTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = append(m.templates, tmpl)
}

// GetEvent implements EventStore
func (m *MockStore) GetEvent(_ context.Context, workspaceID, eventID string) (*types.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[eventID]
	if !ok || event.WorkspaceID != workspaceID {
		return nil, apperrors.NewNotFoundError("event", eventID)
	}
	copied := *event
	return &copied, nil
}

// ListTasksByEvent implements TaskStore
func (m *MockStore) ListTasksByEvent(_ context.Context, eventID string) ([]types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Task
	for _, task := range m.tasks {
		if task.EventID == eventID {
			out = append(out, *task)
		}
	}
	return out, nil
}

// UpdateTask implements TaskStore. The mutation is recorded, then applied to
// the in-memory task so repeated synchronization sees the stamped state.
func (m *MockStore) UpdateTask(_ context.Context, mutation types.TaskMutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	if m.FailUpdateAt > 0 && m.updateCalls == m.FailUpdateAt {
		return apperrors.NewDatabaseError("update task", nil)
	}

	task, ok := m.tasks[mutation.TaskID]
	if !ok {
		return apperrors.NewNotFoundError("task", mutation.TaskID)
	}

	m.Applied = append(m.Applied, mutation)
	if mutation.NewDueDate != nil {
		due := *mutation.NewDueDate
		task.DueDate = &due
	}
	if mutation.Metadata != nil {
		task.Metadata = *mutation.Metadata
	}
	if mutation.Priority != nil {
		task.Priority = *mutation.Priority
	}
	return nil
}

// ListCandidateTemplates implements TemplateStore
func (m *MockStore) ListCandidateTemplates(_ context.Context, organizationID string) ([]types.EventTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.EventTemplate
	for _, tmpl := range m.templates {
		if tmpl.Metadata.OrganizationID == organizationID || tmpl.Metadata.IsPublic {
			out = append(out, tmpl)
		}
	}
	return out, nil
}

// Task returns the current in-memory state of a task
func (m *MockStore) Task(id string) *types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[id]; ok {
		copied := *task
		return &copied
	}
	return nil
}
