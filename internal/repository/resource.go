package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

const resourceColumns = `
	id,
	tag,
	category,
	operator_id,
	is_available,
	ST_AsEWKB(location::geometry),
	facility_id,
	location_updated_at,
	created_at,
	updated_at`

func scanResource(row rowScanner) (*models.Resource, error) {
	resource := &models.Resource{}
	var location []byte
	err := row.Scan(
		&resource.ID,
		&resource.Tag,
		&resource.Category,
		&resource.OperatorID,
		&resource.IsAvailable,
		&location,
		&resource.FacilityID,
		&resource.LocationUpdatedAt,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resource.Location, err = decodeNullablePoint(location); err != nil {
		return nil, fmt.Errorf("resource %s location: %w", resource.ID, err)
	}
	return resource, nil
}

// CreateResource регистрирует машину; повтор позывного - ErrConflict
func (r *Repository) CreateResource(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (id, tag, category, operator_id, is_available, location, facility_id, location_updated_at)
		VALUES ($1, $2, $3, $4, $5, ST_GeomFromEWKB($6)::geography, $7, CASE WHEN $6::bytea IS NULL THEN NULL ELSE NOW() END)
		RETURNING location_updated_at, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		resource.ID,
		resource.Tag,
		resource.Category,
		resource.OperatorID,
		resource.IsAvailable,
		encodeNullablePoint(resource.Location),
		resource.FacilityID,
	).Scan(&resource.LocationUpdatedAt, &resource.CreatedAt, &resource.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return fmt.Errorf("resource %s violates %s: %w", resource.Tag, constraint, service.ErrConflict)
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1;`

	resource, err := scanResource(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapNotFound(err, "resource", id)
	}
	return resource, nil
}

func (r *Repository) ListResources(ctx context.Context, availableOnly bool, category string) ([]*models.Resource, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE (NOT $1 OR is_available)
			AND ($2 = '' OR category = $2)
		ORDER BY tag;
	`
	rows, err := r.db.Query(ctx, query, availableOnly, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource row: %w", err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error resource list iteration: %w", err)
	}
	return resources, nil
}

// SetResourceAvailability меняет доступность машины без активного назначения.
// Строка машины блокируется до проверки назначений: назначение занимает машину под той же блокировкой,
// поэтому проверка видит всё, что успело закоммититься до неё.
func (r *Repository) SetResourceAvailability(ctx context.Context, id uuid.UUID, available bool, at time.Time) (*models.Resource, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin availability change: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM resources WHERE id = $1 FOR UPDATE;`, id).Scan(&locked)
	if err != nil {
		return nil, wrapNotFound(err, "resource", id)
	}

	var busy bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE resource_id = $1 AND outcome IN ('pending', 'accepted')
		);
	`, id).Scan(&busy)
	if err != nil {
		return nil, fmt.Errorf("failed to check active assignments: %w", err)
	}
	if busy {
		return nil, fmt.Errorf("resource %s has an active assignment: %w", id, service.ErrConflict)
	}

	query := `
		UPDATE resources SET
			is_available = $1,
			updated_at = $2
		WHERE id = $3
		RETURNING ` + resourceColumns + `;
	`
	resource, err := scanResource(tx.QueryRow(ctx, query, available, at, id))
	if err != nil {
		return nil, fmt.Errorf("failed to set resource availability: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit availability change: %w", err)
	}
	return resource, nil
}

func (r *Repository) UpdateResourceLocation(ctx context.Context, id uuid.UUID, point geo.Point, at time.Time) (*models.Resource, error) {
	query := `
		UPDATE resources SET
			location = ST_GeomFromEWKB($1)::geography,
			location_updated_at = $2,
			updated_at = $2
		WHERE id = $3
		RETURNING ` + resourceColumns + `;
	`
	resource, err := scanResource(r.db.QueryRow(ctx, query, geo.EncodePoint(point), at, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("resource with id %s not found for location update: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update resource location: %w", err)
	}
	return resource, nil
}
