package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

// частичный уникальный индекс: одно активное назначение на машину
const constraintActivePerResource = "assignments_active_resource_idx"

// rowScanner - общее у pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// wrapNotFound переводит pgx.ErrNoRows в service.ErrNotFound
func wrapNotFound(err error, entity string, id fmt.Stringer) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s with id %s: %w", entity, id, service.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s by id: %w", entity, err)
}

// uniqueViolation возвращает имя нарушенного уникального ограничения
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// decodeNullablePoint: NULL в колонке означает, что координаты неизвестны
func decodeNullablePoint(raw []byte) (*geo.Point, error) {
	if raw == nil {
		return nil, nil
	}
	p, err := geo.DecodePoint(raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func encodeNullablePoint(p *geo.Point) []byte {
	if p == nil {
		return nil
	}
	return geo.EncodePoint(*p)
}
