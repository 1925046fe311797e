package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

// Repository - хранилище ядра в PostgreSQL/PostGIS.
// Координаты хранятся как geography(Point, 4326) и передаются в EWKB.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) service.DispatchRepository {
	return &Repository{db: db}
}

const incidentColumns = `
	id,
	reporter_id,
	ST_AsEWKB(location::geometry),
	category,
	severity,
	description,
	status,
	assigned_resource_id,
	destination_facility_id,
	version,
	created_at,
	updated_at,
	resolved_at`

func scanIncident(row rowScanner) (*models.Incident, error) {
	incident := &models.Incident{}
	var location []byte
	err := row.Scan(
		&incident.ID,
		&incident.ReporterID,
		&location,
		&incident.Category,
		&incident.Severity,
		&incident.Description,
		&incident.Status,
		&incident.AssignedResourceID,
		&incident.DestinationFacilityID,
		&incident.Version,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if incident.Location, err = geo.DecodePoint(location); err != nil {
		return nil, fmt.Errorf("incident %s location: %w", incident.ID, err)
	}
	return incident, nil
}

// CreateIncident создает новую запись об инциденте в бд
func (r *Repository) CreateIncident(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (id, reporter_id, location, category, severity, description, status, version)
		VALUES ($1, $2, ST_GeomFromEWKB($3)::geography, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.ID,
		incident.ReporterID,
		geo.EncodePoint(incident.Location),
		incident.Category,
		incident.Severity,
		incident.Description,
		incident.Status,
		incident.Version,
	).Scan(&incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetIncident возвращает инцидент по его UUID
func (r *Repository) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapNotFound(err, "incident", id)
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (r *Repository) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (filter.Page - 1) * filter.PageSize

	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR reporter_id = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.db.Query(ctx, query, string(filter.Status), filter.ReporterID, filter.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// ListPendingIncidents возвращает инциденты без машины после курсора, самые старые первыми
func (r *Repository) ListPendingIncidents(ctx context.Context, after models.PendingCursor, limit int) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE status = 'pending' AND (created_at, id) > ($1, $2)
		ORDER BY created_at, id
		LIMIT $3;
	`
	rows, err := r.db.Query(ctx, query, after.CreatedAt, after.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error pending list iteration: %w", err)
	}
	return incidents, nil
}
