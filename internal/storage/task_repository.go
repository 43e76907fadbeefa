package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "showrunner/internal/errors"
	"showrunner/pkg/types"
)

// TaskRepository implements task data access using a SQL database
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository wraps the task table
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// scanTaskFromRows decodes one row, shared by the list and lookup queries
func (tr *TaskRepository) scanTaskFromRows(rows *sql.Rows) (*types.Task, error) {
	var task types.Task
	var dependenciesJSON, metadataJSON []byte

	err := rows.Scan(
		&task.ID, &task.WorkspaceID, &task.EventID, &task.Title, &task.Description,
		&task.Category, &task.Status, &task.Priority, &task.Assignee, &task.DueDate,
		&dependenciesJSON, &metadataJSON, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dependenciesJSON, &task.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dependencies: %w", err)
	}
	if err := json.Unmarshal(metadataJSON, &task.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &task, nil
}

// Create inserts a new task
func (tr *TaskRepository) Create(ctx context.Context, task *types.Task) error {
	query := `
		INSERT INTO tasks (
			id, workspace_id, event_id, title, description,
			category, status, priority, assignee, due_date,
			dependencies, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	dependenciesJSON, err := json.Marshal(task.Dependencies)
	if err != nil {
		return fmt.Errorf("failed to marshal dependencies: %w", err)
	}
	metadataJSON, err := json.Marshal(task.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = tr.db.ExecContext(ctx, query,
		task.ID, task.WorkspaceID, task.EventID, task.Title, task.Description,
		task.Category, task.Status, task.Priority, task.Assignee, task.DueDate,
		dependenciesJSON, metadataJSON, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseError("create task", err)
	}
	return nil
}

// GetByID loads a single task
func (tr *TaskRepository) GetByID(ctx context.Context, id string) (*types.Task, error) {
	query := `
		SELECT id, workspace_id, event_id, title, description,
			   category, status, priority, assignee, due_date,
			   dependencies, metadata, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	var task types.Task
	var dependenciesJSON, metadataJSON []byte

	err := tr.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.WorkspaceID, &task.EventID, &task.Title, &task.Description,
		&task.Category, &task.Status, &task.Priority, &task.Assignee, &task.DueDate,
		&dependenciesJSON, &metadataJSON, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("task", id)
		}
		return nil, apperrors.NewDatabaseError("get task", err)
	}

	if err := json.Unmarshal(dependenciesJSON, &task.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dependencies: %w", err)
	}
	if err := json.Unmarshal(metadataJSON, &task.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &task, nil
}

// ListByEvent retrieves all tasks for an event, oldest first
func (tr *TaskRepository) ListByEvent(ctx context.Context, eventID string) ([]types.Task, error) {
	query := `
		SELECT id, workspace_id, event_id, title, description,
			   category, status, priority, assignee, due_date,
			   dependencies, metadata, created_at, updated_at
		FROM tasks
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := tr.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tasks", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var taskList []types.Task
	for rows.Next() {
		task, err := tr.scanTaskFromRows(rows)
		if err != nil {
			return nil, err
		}
		taskList = append(taskList, *task)
	}

	return taskList, rows.Err()
}

// UpdateTask applies an intended mutation. Only the mutation's non-nil fields
// are written, so a repeated apply of the same mutation is a no-op.
func (tr *TaskRepository) UpdateTask(ctx context.Context, mutation types.TaskMutation) error {
	query := "UPDATE tasks SET updated_at = $1"
	args := []interface{}{time.Now().UTC()}
	argIndex := 2

	if mutation.NewDueDate != nil {
		query += fmt.Sprintf(", due_date = $%d", argIndex)
		args = append(args, *mutation.NewDueDate)
		argIndex++
	}
	if mutation.Metadata != nil {
		metadataJSON, err := json.Marshal(mutation.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		query += fmt.Sprintf(", metadata = $%d", argIndex)
		args = append(args, metadataJSON)
		argIndex++
	}
	if mutation.Priority != nil {
		query += fmt.Sprintf(", priority = $%d", argIndex)
		args = append(args, *mutation.Priority)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, mutation.TaskID)

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewDatabaseError("update task", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("task", mutation.TaskID)
	}
	return nil
}
