package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingUpdater запоминает все записанные точки
type recordingUpdater struct {
	mu     sync.Mutex
	writes []geo.Point
	err    error
}

func (u *recordingUpdater) UpdateLocation(_ context.Context, id uuid.UUID, point geo.Point) (*models.Resource, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return nil, u.err
	}
	u.writes = append(u.writes, point)
	p := point
	return &models.Resource{ID: id, Location: &p}, nil
}

func (u *recordingUpdater) points() []geo.Point {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]geo.Point(nil), u.writes...)
}

// countingUpdater считает попытки записи и всегда отвечает заданной ошибкой
type countingUpdater struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (u *countingUpdater) UpdateLocation(context.Context, uuid.UUID, geo.Point) (*models.Resource, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	return nil, u.err
}

func (i *LocationIngestor) tracked() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.tracks)
}

func newTestIngestor(updater LocationUpdater, interval time.Duration) (*LocationIngestor, *time.Time) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	ingestor := NewLocationIngestor(updater, interval, logger)
	ingestor.now = func() time.Time { return clock }
	return ingestor, &clock
}

func TestLocationIngestor_ThrottlesAndKeepsLatest(t *testing.T) {
	// Подготовка
	updater := &recordingUpdater{}
	ingestor, clock := newTestIngestor(updater, 10*time.Second)
	ctx := context.Background()
	id := uuid.New()
	p1 := geo.Point{Lat: 9.01, Lon: 38.70}
	p2 := geo.Point{Lat: 9.02, Lon: 38.71}
	p3 := geo.Point{Lat: 9.03, Lon: 38.72}

	// Действие: первая точка пишется сразу, следующие в пределах интервала схлопываются
	require.NoError(t, ingestor.Push(ctx, id, p1))
	*clock = clock.Add(2 * time.Second)
	require.NoError(t, ingestor.Push(ctx, id, p2))
	require.NoError(t, ingestor.Push(ctx, id, p3))

	// Проверки
	assert.Equal(t, []geo.Point{p1}, updater.points())

	// до истечения интервала Flush ничего не пишет
	ingestor.Flush(ctx)
	assert.Len(t, updater.points(), 1)

	*clock = clock.Add(10 * time.Second)
	ingestor.Flush(ctx)
	assert.Equal(t, []geo.Point{p1, p3}, updater.points(), "only the latest coalesced sample is written")

	// повторный Flush без новых точек ничего не делает
	*clock = clock.Add(time.Minute)
	ingestor.Flush(ctx)
	assert.Len(t, updater.points(), 2)
}

func TestLocationIngestor_IndependentPerResource(t *testing.T) {
	updater := &recordingUpdater{}
	ingestor, _ := newTestIngestor(updater, time.Minute)
	ctx := context.Background()

	require.NoError(t, ingestor.Push(ctx, uuid.New(), geo.Point{Lat: 1, Lon: 1}))
	require.NoError(t, ingestor.Push(ctx, uuid.New(), geo.Point{Lat: 2, Lon: 2}))

	assert.Len(t, updater.points(), 2)
}

func TestLocationIngestor_RejectsInvalidPoint(t *testing.T) {
	updater := &recordingUpdater{}
	ingestor, _ := newTestIngestor(updater, time.Second)

	err := ingestor.Push(context.Background(), uuid.New(), geo.Point{Lat: 95, Lon: 0})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, updater.points())
}

func TestLocationIngestor_WriteFailureIsRetriedByFlush(t *testing.T) {
	updater := &recordingUpdater{err: errors.New("db down")}
	ingestor, clock := newTestIngestor(updater, 5*time.Second)
	ctx := context.Background()
	id := uuid.New()
	p := geo.Point{Lat: 9.02, Lon: 38.75}

	err := ingestor.Push(ctx, id, p)
	assert.Error(t, err)

	updater.mu.Lock()
	updater.err = nil
	updater.mu.Unlock()
	*clock = clock.Add(5 * time.Second)
	ingestor.Flush(ctx)

	assert.Equal(t, []geo.Point{p}, updater.points())
}

func TestLocationIngestor_RunFlushesOnShutdown(t *testing.T) {
	updater := &recordingUpdater{}
	ingestor, _ := newTestIngestor(updater, time.Hour)
	id := uuid.New()
	require.NoError(t, ingestor.Push(context.Background(), id, geo.Point{Lat: 1, Lon: 1}))
	require.NoError(t, ingestor.Push(context.Background(), id, geo.Point{Lat: 2, Lon: 2}))

	// на остановке досылаются только точки с истёкшим интервалом
	ingestor.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ingestor.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.Equal(t, []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}, updater.points())
}

func TestLocationIngestor_UnknownResourceIsForgotten(t *testing.T) {
	// Подготовка
	updater := &countingUpdater{err: fmt.Errorf("service: could not update location: %w", ErrNotFound)}
	ingestor, clock := newTestIngestor(updater, time.Second)
	ctx := context.Background()

	// Действие: точки от машин, которых нет в реестре
	for n := 0; n < 100; n++ {
		err := ingestor.Push(ctx, uuid.New(), geo.Point{Lat: 1, Lon: 1})
		require.ErrorIs(t, err, ErrNotFound)
	}
	for n := 0; n < 3; n++ {
		*clock = clock.Add(time.Minute)
		ingestor.Flush(ctx)
	}

	// Проверки: треки не копятся, Flush не повторяет запись
	assert.Zero(t, ingestor.tracked())
	assert.Equal(t, 100, updater.calls)
}

func TestLocationIngestor_IdleTracksAreEvicted(t *testing.T) {
	// Подготовка
	updater := &recordingUpdater{}
	ingestor, clock := newTestIngestor(updater, time.Second)
	ctx := context.Background()
	quiet, active := uuid.New(), uuid.New()
	require.NoError(t, ingestor.Push(ctx, quiet, geo.Point{Lat: 1, Lon: 1}))
	require.NoError(t, ingestor.Push(ctx, active, geo.Point{Lat: 2, Lon: 2}))

	// Действие: одна машина продолжает слать точки, другая замолчала
	*clock = clock.Add(59 * time.Second)
	require.NoError(t, ingestor.Push(ctx, active, geo.Point{Lat: 2.1, Lon: 2.1}))
	*clock = clock.Add(2 * time.Second)
	ingestor.Flush(ctx)

	// Проверки
	assert.Equal(t, 1, ingestor.tracked())

	// вернувшаяся машина снова пишется сразу
	require.NoError(t, ingestor.Push(ctx, quiet, geo.Point{Lat: 1.5, Lon: 1.5}))
	assert.Equal(t, geo.Point{Lat: 1.5, Lon: 1.5}, updater.points()[len(updater.points())-1])
}

func TestLocationIngestor_PendingSampleIsNotEvicted(t *testing.T) {
	updater := &recordingUpdater{err: errors.New("db down")}
	ingestor, clock := newTestIngestor(updater, time.Second)
	ctx := context.Background()
	id := uuid.New()
	assert.Error(t, ingestor.Push(ctx, id, geo.Point{Lat: 1, Lon: 1}))

	// недописанная точка держит трек, пока запись не удастся
	*clock = clock.Add(time.Hour)
	ingestor.Flush(ctx)
	assert.Equal(t, 1, ingestor.tracked())

	updater.mu.Lock()
	updater.err = nil
	updater.mu.Unlock()
	*clock = clock.Add(time.Second)
	ingestor.Flush(ctx)
	assert.Equal(t, []geo.Point{{Lat: 1, Lon: 1}}, updater.points())
}
