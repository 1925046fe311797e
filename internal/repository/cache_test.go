package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*IncidentCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIncidentCache(client, ttl).(*IncidentCache), mr
}

func TestIncidentCache_SetGetInvalidate(t *testing.T) {
	// Подготовка
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	resourceID := uuid.New()
	incident := &models.Incident{
		ID:                 uuid.New(),
		ReporterID:         "reporter-1",
		Location:           geo.Point{Lat: 9.02, Lon: 38.75},
		Status:             models.StatusAssigned,
		AssignedResourceID: &resourceID,
		Version:            1,
		CreatedAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC),
	}

	// Промах кэша - nil без ошибки
	got, err := cache.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Действие
	require.NoError(t, cache.SetIncident(ctx, incident))

	// Проверки
	got, err = cache.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, incident.Location, got.Location)
	assert.Equal(t, resourceID, *got.AssignedResourceID)
	assert.Equal(t, models.StatusAssigned, got.Status)
	assert.Equal(t, time.Minute, mr.TTL(incidentKey(incident.ID)))

	require.NoError(t, cache.InvalidateIncident(ctx, incident.ID))
	got, err = cache.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIncidentCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Second)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New(), Status: models.StatusPending}

	require.NoError(t, cache.SetIncident(ctx, incident))
	mr.FastForward(2 * time.Second)

	got, err := cache.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIncidentCache_CorruptedEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	id := uuid.New()
	require.NoError(t, mr.Set(incidentKey(id), "{not json"))

	_, err := cache.GetIncident(context.Background(), id)
	assert.ErrorContains(t, err, "failed to unmarshal incident from cache")
}

func TestIncidentCache_StaleFillDoesNotOverwriteNewerVersion(t *testing.T) {
	// Подготовка: кэш уже знает версию 4, запоздавшее чтение из БД несёт версию 3
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	id := uuid.New()
	fresh := &models.Incident{ID: id, Status: models.StatusCancelled, Version: 4}
	stale := &models.Incident{ID: id, Status: models.StatusPending, Version: 3}
	require.NoError(t, cache.SetIncident(ctx, fresh))

	// Действие
	require.NoError(t, cache.SetIncident(ctx, stale))

	// Проверки
	got, err := cache.GetIncident(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Equal(t, 4, got.Version)

	// после инвалидации старая версия тоже не возвращается в кэш
	require.NoError(t, cache.InvalidateIncident(ctx, id))
	require.NoError(t, cache.SetIncident(ctx, stale))
	got, err = cache.GetIncident(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	// а та же или более новая версия кэшируется
	require.NoError(t, cache.SetIncident(ctx, fresh))
	got, err = cache.GetIncident(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Version)
	assert.Equal(t, time.Minute, mr.TTL(incidentVersionKey(id)))
}
