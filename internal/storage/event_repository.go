package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "showrunner/internal/errors"
	"showrunner/pkg/types"
)

// EventRepository implements event data access using a SQL database
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event
func (er *EventRepository) Create(ctx context.Context, event *types.Event) error {
	query := `
		INSERT INTO events (
			id, workspace_id, organization_id, title,
			start_date, end_date, registration_deadline, capacity, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := er.db.ExecContext(ctx, query,
		event.ID, event.WorkspaceID, event.OrganizationID, event.Title,
		event.StartDate, event.EndDate, event.RegistrationDeadline, event.Capacity, event.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseError("create event", err)
	}
	return nil
}

// GetByID retrieves an event scoped to a workspace
func (er *EventRepository) GetByID(ctx context.Context, workspaceID, eventID string) (*types.Event, error) {
	query := `
		SELECT id, workspace_id, organization_id, title,
			   start_date, end_date, registration_deadline, capacity, created_at
		FROM events
		WHERE id = $1 AND workspace_id = $2`

	var event types.Event
	err := er.db.QueryRowContext(ctx, query, eventID, workspaceID).Scan(
		&event.ID, &event.WorkspaceID, &event.OrganizationID, &event.Title,
		&event.StartDate, &event.EndDate, &event.RegistrationDeadline, &event.Capacity, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("event", eventID)
		}
		return nil, apperrors.NewDatabaseError("get event", err)
	}
	return &event, nil
}

// UpdateDates rewrites an event's timeline dates, used when production shifts
// the schedule
func (er *EventRepository) UpdateDates(ctx context.Context, event *types.Event) error {
	query := `
		UPDATE events SET start_date = $2, end_date = $3, registration_deadline = $4
		WHERE id = $1`

	result, err := er.db.ExecContext(ctx, query,
		event.ID, event.StartDate, event.EndDate, event.RegistrationDeadline,
	)
	if err != nil {
		return apperrors.NewDatabaseError("update event dates", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("event", event.ID)
	}
	return nil
}
