package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "showrunner/internal/errors"
	"showrunner/pkg/types"
)

// TemplateRepository implements event template data access using a SQL database
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository wraps the template table
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, name, description, category, complexity,
		   size_min, size_max, roles, task_categories, channels,
		   completion_rate, times_applied, organization_id, is_public, created_at`

// scanTemplateFromRows scans a single template from database rows
func (tpr *TemplateRepository) scanTemplateFromRows(rows *sql.Rows) (*types.EventTemplate, error) {
	var tmpl types.EventTemplate
	var rolesJSON, categoriesJSON, channelsJSON []byte

	err := rows.Scan(
		&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.Category, &tmpl.Complexity,
		&tmpl.EventSizeRange.Min, &tmpl.EventSizeRange.Max,
		&rolesJSON, &categoriesJSON, &channelsJSON,
		&tmpl.Effectiveness.CompletionRate, &tmpl.Effectiveness.TimesApplied,
		&tmpl.Metadata.OrganizationID, &tmpl.Metadata.IsPublic, &tmpl.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rolesJSON, &tmpl.Roles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roles: %w", err)
	}
	if err := json.Unmarshal(categoriesJSON, &tmpl.TaskCategories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task categories: %w", err)
	}
	if err := json.Unmarshal(channelsJSON, &tmpl.Channels); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channels: %w", err)
	}

	return &tmpl, nil
}

// Create inserts a new template
func (tpr *TemplateRepository) Create(ctx context.Context, tmpl *types.EventTemplate) error {
	query := `
		INSERT INTO templates (
			id, name, description, category, complexity,
			size_min, size_max, roles, task_categories, channels,
			completion_rate, times_applied, organization_id, is_public, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	rolesJSON, err := json.Marshal(tmpl.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}
	categoriesJSON, err := json.Marshal(tmpl.TaskCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal task categories: %w", err)
	}
	channelsJSON, err := json.Marshal(tmpl.Channels)
	if err != nil {
		return fmt.Errorf("failed to marshal channels: %w", err)
	}

	_, err = tpr.db.ExecContext(ctx, query,
		tmpl.ID, tmpl.Name, tmpl.Description, tmpl.Category, tmpl.Complexity,
		tmpl.EventSizeRange.Min, tmpl.EventSizeRange.Max,
		rolesJSON, categoriesJSON, channelsJSON,
		tmpl.Effectiveness.CompletionRate, tmpl.Effectiveness.TimesApplied,
		tmpl.Metadata.OrganizationID, tmpl.Metadata.IsPublic, tmpl.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseError("create template", err)
	}
	return nil
}

// GetByID loads a single template
func (tpr *TemplateRepository) GetByID(ctx context.Context, id string) (*types.EventTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`

	rows, err := tpr.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get template", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewDatabaseError("get template", err)
		}
		return nil, apperrors.NewNotFoundError("template", id)
	}
	return tpr.scanTemplateFromRows(rows)
}

// ListCandidates retrieves templates visible to an organization: its own
// templates plus public ones
func (tpr *TemplateRepository) ListCandidates(ctx context.Context, organizationID string) ([]types.EventTemplate, error) {
	query := `SELECT ` + templateColumns + `
		FROM templates
		WHERE organization_id = $1 OR is_public = TRUE
		ORDER BY created_at ASC, id ASC`

	rows, err := tpr.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list templates", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var templates []types.EventTemplate
	for rows.Next() {
		tmpl, err := tpr.scanTemplateFromRows(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tmpl)
	}

	return templates, rows.Err()
}

// RecordApplication increments a template's usage counter after it is applied
func (tpr *TemplateRepository) RecordApplication(ctx context.Context, id string) error {
	query := `UPDATE templates SET times_applied = times_applied + 1 WHERE id = $1`

	result, err := tpr.db.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.NewDatabaseError("record template application", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("template", id)
	}
	return nil
}
