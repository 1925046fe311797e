package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

// ApplyTransition применяет переход в одной транзакции.
// Инцидент обновляется по статусу и версии, машина занимается только если свободна.
func (r *Repository) ApplyTransition(ctx context.Context, change *models.TransitionChange) (*models.Incident, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	incident, err := updateIncidentStatus(ctx, tx, change)
	if err != nil {
		return nil, err
	}

	if upd := change.AssignmentUpdate; upd != nil {
		if err := closeAssignment(ctx, tx, upd, change.At); err != nil {
			return nil, err
		}
	}

	if change.ReleaseResourceID != nil {
		tag, err := tx.Exec(ctx,
			`UPDATE resources SET is_available = TRUE, updated_at = $1 WHERE id = $2;`,
			change.At, *change.ReleaseResourceID)
		if err != nil {
			return nil, fmt.Errorf("failed to release resource: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("resource with id %s: %w", *change.ReleaseResourceID, service.ErrNotFound)
		}
	}

	if na := change.NewAssignment; na != nil {
		if err := insertAssignment(ctx, tx, na, change.At); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}
	return incident, nil
}

func updateIncidentStatus(ctx context.Context, tx pgx.Tx, change *models.TransitionChange) (*models.Incident, error) {
	query := `
		UPDATE incidents SET
			status = $1,
			version = version + 1,
			assigned_resource_id = $2,
			destination_facility_id = $3,
			resolved_at = COALESCE($4, resolved_at),
			updated_at = $5
		WHERE id = $6 AND status = $7 AND version = $8
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(tx.QueryRow(ctx, query,
		change.ToStatus,
		change.AssignedResourceID,
		change.DestinationFacilityID,
		change.ResolvedAt,
		change.At,
		change.IncidentID,
		change.FromStatus,
		change.ExpectedVersion,
	))
	if err == nil {
		return incident, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM incidents WHERE id = $1);`, change.IncidentID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check incident: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("incident with id %s: %w", change.IncidentID, service.ErrNotFound)
	}
	return nil, fmt.Errorf("incident %s changed concurrently: %w", change.IncidentID, service.ErrConflict)
}

func closeAssignment(ctx context.Context, tx pgx.Tx, upd *models.AssignmentUpdate, at time.Time) error {
	var respondedAt, closedAt *time.Time
	switch upd.Outcome {
	case models.OutcomeAccepted:
		respondedAt = &at
	case models.OutcomeDeclined:
		respondedAt, closedAt = &at, &at
	case models.OutcomeReleased:
		closedAt = &at
	}

	tag, err := tx.Exec(ctx, `
		UPDATE assignments SET
			outcome = $1,
			responded_at = COALESCE($2, responded_at),
			closed_at = COALESCE($3, closed_at),
			updated_at = $4
		WHERE id = $5 AND outcome IN ('pending', 'accepted');
	`, upd.Outcome, respondedAt, closedAt, at, upd.ID)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment %s is not active: %w", upd.ID, service.ErrConflict)
	}
	return nil
}

func insertAssignment(ctx context.Context, tx pgx.Tx, a *models.Assignment, at time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE resources SET is_available = FALSE, updated_at = $1 WHERE id = $2 AND is_available;`,
		at, a.ResourceID)
	if err != nil {
		return fmt.Errorf("failed to reserve resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1);`, a.ResourceID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check resource: %w", err)
		}
		if !exists {
			return fmt.Errorf("resource with id %s: %w", a.ResourceID, service.ErrNotFound)
		}
		return fmt.Errorf("resource %s: %w", a.ResourceID, service.ErrResourceUnavailable)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO assignments (id, incident_id, resource_id, outcome, eta_seconds, assigned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $6);
	`, a.ID, a.IncidentID, a.ResourceID, a.Outcome, a.ETASeconds, a.AssignedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == constraintActivePerResource {
				return fmt.Errorf("resource %s: %w", a.ResourceID, service.ErrResourceUnavailable)
			}
			return fmt.Errorf("incident %s already has an active assignment: %w", a.IncidentID, service.ErrConflict)
		}
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}
