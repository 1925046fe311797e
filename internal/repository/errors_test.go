package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNotFound(t *testing.T) {
	id := uuid.New()

	err := wrapNotFound(pgx.ErrNoRows, "incident", id)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorContains(t, err, id.String())

	err = wrapNotFound(errors.New("connection reset"), "incident", id)
	assert.NotErrorIs(t, err, service.ErrNotFound)
	assert.ErrorContains(t, err, "failed to get incident by id")
}

func TestUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintActivePerResource}

	constraint, ok := uniqueViolation(fmt.Errorf("insert: %w", pgErr))
	assert.True(t, ok)
	assert.Equal(t, constraintActivePerResource, constraint)

	_, ok = uniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	assert.False(t, ok)

	_, ok = uniqueViolation(errors.New("plain"))
	assert.False(t, ok)
}

func TestNullablePoint(t *testing.T) {
	p, err := decodeNullablePoint(nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, encodeNullablePoint(nil))

	want := geo.Point{Lat: -33.86, Lon: 151.21}
	p, err = decodeNullablePoint(encodeNullablePoint(&want))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, want, *p)

	_, err = decodeNullablePoint([]byte{0x01, 0x02})
	var decodeErr *geo.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
