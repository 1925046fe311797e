package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
)

const facilityColumns = `id, name, ST_AsEWKB(location::geometry), phone, address, created_at, updated_at`

func scanFacility(row rowScanner) (*models.Facility, error) {
	f := &models.Facility{}
	var location []byte
	if err := row.Scan(&f.ID, &f.Name, &location, &f.Phone, &f.Address, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	p, err := geo.DecodePoint(location)
	if err != nil {
		return nil, fmt.Errorf("facility %s location: %w", f.ID, err)
	}
	f.Location = p
	return f, nil
}

func (r *Repository) CreateFacility(ctx context.Context, facility *models.Facility) error {
	query := `
		INSERT INTO facilities (id, name, location, phone, address)
		VALUES ($1, $2, ST_GeomFromEWKB($3)::geography, $4, $5)
		RETURNING created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		facility.ID,
		facility.Name,
		geo.EncodePoint(facility.Location),
		facility.Phone,
		facility.Address,
	).Scan(&facility.CreatedAt, &facility.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

func (r *Repository) GetFacility(ctx context.Context, id uuid.UUID) (*models.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1;`

	f, err := scanFacility(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapNotFound(err, "facility", id)
	}
	return f, nil
}

func (r *Repository) ListFacilities(ctx context.Context) ([]*models.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities ORDER BY name;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	defer rows.Close()

	list := make([]*models.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility row: %w", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error facility list iteration: %w", err)
	}
	return list, nil
}
