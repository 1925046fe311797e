package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/shenikar/emergency_dispatch/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPostgres подключается к TEST_DATABASE_URL и накатывает миграции.
// Без переменной тест пропускается.
func newTestPostgres(t *testing.T) (*Repository, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	m, err := migrate.New("file://../../migrations", strings.Replace(url, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	_, _ = m.Close()

	pool, err := postgres.NewPostgresDB(context.Background(), &config.Config{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRepository(pool).(*Repository), pool
}

func TestPostgres_AvailabilityWaitsForConcurrentAssignment(t *testing.T) {
	// Подготовка
	repo, pool := newTestPostgres(t)
	ctx := context.Background()
	resource := &models.Resource{ID: uuid.New(), Tag: "unit-" + uuid.NewString(), OperatorID: "crew-1", IsAvailable: true}
	require.NoError(t, repo.CreateResource(ctx, resource))
	incident := &models.Incident{
		ID:         uuid.New(),
		ReporterID: "reporter-1",
		Location:   geo.Point{Lat: 9.02, Lon: 38.75},
		Status:     models.StatusPending,
	}
	require.NoError(t, repo.CreateIncident(ctx, incident))

	// назначение занимает машину в открытой транзакции
	at := time.Now().UTC()
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	require.NoError(t, insertAssignment(ctx, tx, &models.Assignment{
		ID:         uuid.New(),
		IncidentID: incident.ID,
		ResourceID: resource.ID,
		Outcome:    models.OutcomePending,
		AssignedAt: at,
	}, at))

	// Действие: оператор объявляет машину свободной, пока назначение не закоммичено
	type result struct {
		resource *models.Resource
		err      error
	}
	done := make(chan result, 1)
	go func() {
		res, err := repo.SetResourceAvailability(ctx, resource.ID, true, at)
		done <- result{res, err}
	}()
	require.Eventually(t, func() bool {
		var waiting int
		err := pool.QueryRow(ctx, `SELECT count(*) FROM pg_stat_activity WHERE wait_event_type = 'Lock';`).Scan(&waiting)
		return err == nil && waiting > 0
	}, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, tx.Commit(ctx))

	// Проверки: закоммиченное назначение видно, машина осталась занятой
	got := <-done
	assert.ErrorIs(t, got.err, service.ErrConflict)
	stored, err := repo.GetResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestPostgres_AvailabilityUnknownResource(t *testing.T) {
	repo, _ := newTestPostgres(t)

	_, err := repo.SetResourceAvailability(context.Background(), uuid.New(), true, time.Now())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostgres_PendingCursorWalksAllPages(t *testing.T) {
	repo, pool := newTestPostgres(t)
	ctx := context.Background()
	base := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make(map[uuid.UUID]bool)
	for i := 0; i < 5; i++ {
		incident := &models.Incident{
			ID:         uuid.New(),
			ReporterID: "cursor-" + uuid.NewString(),
			Location:   geo.Point{Lat: 1, Lon: 1},
			Status:     models.StatusPending,
		}
		require.NoError(t, repo.CreateIncident(ctx, incident))
		// одинаковое время создания проверяет разбор по id
		_, err := pool.Exec(ctx, `UPDATE incidents SET created_at = $1 WHERE id = $2;`, base.Add(time.Duration(i/2)*time.Second), incident.ID)
		require.NoError(t, err)
		ids[incident.ID] = true
	}

	seen := make(map[uuid.UUID]bool)
	var cursor models.PendingCursor
	for {
		page, err := repo.ListPendingIncidents(ctx, cursor, 2)
		require.NoError(t, err)
		for _, incident := range page {
			assert.False(t, seen[incident.ID], "incident listed twice")
			seen[incident.ID] = true
		}
		if len(page) < 2 {
			break
		}
		cursor = cursor.After(page[len(page)-1])
	}
	for id := range ids {
		assert.True(t, seen[id], "incident %s was skipped", id)
	}
}
