package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

const assignmentColumns = `
	id,
	incident_id,
	resource_id,
	outcome,
	eta_seconds,
	assigned_at,
	responded_at,
	closed_at,
	created_at,
	updated_at`

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := row.Scan(
		&a.ID,
		&a.IncidentID,
		&a.ResourceID,
		&a.Outcome,
		&a.ETASeconds,
		&a.AssignedAt,
		&a.RespondedAt,
		&a.ClosedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1;`

	a, err := scanAssignment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapNotFound(err, "assignment", id)
	}
	return a, nil
}

// GetActiveAssignment возвращает назначение в исходе pending или accepted
func (r *Repository) GetActiveAssignment(ctx context.Context, incidentID uuid.UUID) (*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE incident_id = $1 AND outcome IN ('pending', 'accepted');
	`
	a, err := scanAssignment(r.db.QueryRow(ctx, query, incidentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("active assignment for incident %s: %w", incidentID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAssignmentsByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE incident_id = $1
		ORDER BY assigned_at;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	list := make([]*models.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error assignment list iteration: %w", err)
	}
	return list, nil
}

// AcceptAssignment - compare-and-swap pending -> accepted
func (r *Repository) AcceptAssignment(ctx context.Context, id uuid.UUID, etaSeconds *int, at time.Time) (*models.Assignment, error) {
	query := `
		UPDATE assignments SET
			outcome = 'accepted',
			eta_seconds = $1,
			responded_at = $2,
			updated_at = $2
		WHERE id = $3 AND outcome = 'pending'
		RETURNING ` + assignmentColumns + `;
	`
	a, err := scanAssignment(r.db.QueryRow(ctx, query, etaSeconds, at, id))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to accept assignment: %w", err)
	}
	if _, getErr := r.GetAssignment(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("assignment %s is no longer pending: %w", id, service.ErrConflict)
}
