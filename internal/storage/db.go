package storage

import (
	"context"
	"database/sql"
	"fmt"

	"showrunner/internal/config"
	"showrunner/pkg/types"
)

// schemaStatements create the tables on first start. The column types are the
// common subset both drivers understand; complex fields are JSON-serialized
// into TEXT columns and both drivers accept $N placeholders, so the query
// text is shared.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		title TEXT NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP,
		registration_deadline TIMESTAMP,
		capacity INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		assignee TEXT NOT NULL DEFAULT '',
		due_date TIMESTAMP,
		dependencies TEXT NOT NULL DEFAULT '[]',
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_event ON tasks (event_id)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		complexity TEXT NOT NULL,
		size_min INTEGER NOT NULL,
		size_max INTEGER NOT NULL,
		roles TEXT NOT NULL DEFAULT '[]',
		task_categories TEXT NOT NULL DEFAULT '[]',
		channels TEXT NOT NULL DEFAULT '[]',
		completion_rate REAL NOT NULL DEFAULT 0,
		times_applied INTEGER NOT NULL DEFAULT 0,
		organization_id TEXT NOT NULL DEFAULT '',
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_org ON templates (organization_id)`,
}

// SQLStore implements Store on a SQL database
type SQLStore struct {
	db        *sql.DB
	events    *EventRepository
	tasks     *TaskRepository
	templates *TemplateRepository
}

// Open connects to the configured database and ensures the schema exists
func Open(ctx context.Context, cfg *config.StorageConfig) (*SQLStore, error) {
	var driver, dsn string
	switch cfg.Provider {
	case config.ProviderPostgres:
		driver, dsn = "postgres", cfg.DSN
	case config.ProviderSQLite:
		driver, dsn = "sqlite3", cfg.Path
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := NewSQLStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wraps an existing database handle
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:        db,
		events:    NewEventRepository(db),
		tasks:     NewTaskRepository(db),
		templates: NewTemplateRepository(db),
	}
}

// EnsureSchema creates missing tables and indexes
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database handle
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// GetEvent implements EventStore
func (s *SQLStore) GetEvent(ctx context.Context, workspaceID, eventID string) (*types.Event, error) {
	return s.events.GetByID(ctx, workspaceID, eventID)
}

// ListTasksByEvent implements TaskStore
func (s *SQLStore) ListTasksByEvent(ctx context.Context, eventID string) ([]types.Task, error) {
	return s.tasks.ListByEvent(ctx, eventID)
}

// UpdateTask implements TaskStore
func (s *SQLStore) UpdateTask(ctx context.Context, mutation types.TaskMutation) error {
	return s.tasks.UpdateTask(ctx, mutation)
}

// ListCandidateTemplates implements TemplateStore
func (s *SQLStore) ListCandidateTemplates(ctx context.Context, organizationID string) ([]types.EventTemplate, error) {
	return s.templates.ListCandidates(ctx, organizationID)
}

// Events returns the underlying event repository
func (s *SQLStore) Events() *EventRepository { return s.events }

// Tasks returns the underlying task repository
func (s *SQLStore) Tasks() *TaskRepository { return s.tasks }

// Templates returns the underlying template repository
func (s *SQLStore) Templates() *TemplateRepository { return s.templates }
