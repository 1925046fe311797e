package service

//go:generate mockgen -source=location.go -destination=mocks/mock_location.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	locationResultPersisted = "persisted"
	locationResultCoalesced = "coalesced"
	locationResultFailed    = "failed"

	// locationIdleIntervals - через сколько интервалов без новых точек трек машины забывается
	locationIdleIntervals = 10
)

// LocationUpdater сохраняет позицию машины
type LocationUpdater interface {
	UpdateLocation(ctx context.Context, id uuid.UUID, point geo.Point) (*models.Resource, error)
}

// LocationSink принимает поток координат; реализуется LocationIngestor
type LocationSink interface {
	Push(ctx context.Context, resourceID uuid.UUID, point geo.Point) error
}

type locationTrack struct {
	// writeMu упорядочивает записи одной машины
	writeMu sync.Mutex

	latest    geo.Point
	seq       uint64
	written   uint64
	lastWrite time.Time
	lastPush  time.Time
}

// LocationIngestor принимает поток координат от машин.
// Последняя точка запоминается всегда; в хранилище пишется не чаще minInterval на машину,
// промежуточные точки схлопываются и досылаются из Run.
type LocationIngestor struct {
	updater     LocationUpdater
	minInterval time.Duration
	idleAfter   time.Duration
	logger      *logrus.Logger
	now         func() time.Time

	mu     sync.Mutex
	tracks map[uuid.UUID]*locationTrack
}

func NewLocationIngestor(updater LocationUpdater, minInterval time.Duration, logger *logrus.Logger) *LocationIngestor {
	idleAfter := locationIdleIntervals * minInterval
	if idleAfter < time.Minute {
		idleAfter = time.Minute
	}
	return &LocationIngestor{
		updater:     updater,
		minInterval: minInterval,
		idleAfter:   idleAfter,
		logger:      logger,
		now:         time.Now,
		tracks:      make(map[uuid.UUID]*locationTrack),
	}
}

// Push принимает очередную точку. Запоздавшие и частые точки не отклоняются.
// Ошибка возвращается только если точка некорректна или немедленная запись не удалась.
func (i *LocationIngestor) Push(ctx context.Context, resourceID uuid.UUID, point geo.Point) error {
	if err := point.Validate(); err != nil {
		metrics.LocationSamplesTotal.WithLabelValues(locationResultFailed).Inc()
		return fmt.Errorf("service: %v: %w", err, ErrInvalidInput)
	}

	i.mu.Lock()
	tr, ok := i.tracks[resourceID]
	if !ok {
		tr = &locationTrack{}
		i.tracks[resourceID] = tr
	}
	now := i.now()
	tr.latest = point
	tr.seq++
	tr.lastPush = now
	due := tr.lastWrite.IsZero() || now.Sub(tr.lastWrite) >= i.minInterval
	if due {
		tr.lastWrite = now
	}
	i.mu.Unlock()

	if !due {
		metrics.LocationSamplesTotal.WithLabelValues(locationResultCoalesced).Inc()
		return nil
	}
	return i.persist(ctx, resourceID, tr)
}

// Flush досылает схлопнутые точки, у которых истёк интервал, и забывает давно молчащие машины
func (i *LocationIngestor) Flush(ctx context.Context) {
	now := i.now()

	i.mu.Lock()
	due := make(map[uuid.UUID]*locationTrack)
	for id, tr := range i.tracks {
		if tr.seq == tr.written {
			if now.Sub(tr.lastPush) >= i.idleAfter {
				delete(i.tracks, id)
			}
			continue
		}
		if now.Sub(tr.lastWrite) >= i.minInterval {
			tr.lastWrite = now
			due[id] = tr
		}
	}
	i.mu.Unlock()

	for id, tr := range due {
		if err := i.persist(ctx, id, tr); err != nil {
			i.logger.WithFields(logrus.Fields{
				"service":     "location",
				"method":      "Flush",
				"resource_id": id,
			}).WithError(err).Warn("Failed to flush coalesced location")
		}
	}
}

// Run периодически досылает схлопнутые точки до отмены контекста
func (i *LocationIngestor) Run(ctx context.Context) {
	interval := i.minInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			i.Flush(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			i.Flush(ctx)
		}
	}
}

// persist пишет самую свежую на момент записи точку
func (i *LocationIngestor) persist(ctx context.Context, resourceID uuid.UUID, tr *locationTrack) error {
	tr.writeMu.Lock()
	defer tr.writeMu.Unlock()

	i.mu.Lock()
	point, seq := tr.latest, tr.seq
	if seq == tr.written {
		i.mu.Unlock()
		return nil
	}
	i.mu.Unlock()

	if _, err := i.updater.UpdateLocation(ctx, resourceID, point); err != nil {
		metrics.LocationSamplesTotal.WithLabelValues(locationResultFailed).Inc()
		if errors.Is(err, ErrNotFound) {
			// машины нет, повторять запись бессмысленно
			i.forget(resourceID, tr)
		}
		return err
	}

	i.mu.Lock()
	if seq > tr.written {
		tr.written = seq
	}
	i.mu.Unlock()
	metrics.LocationSamplesTotal.WithLabelValues(locationResultPersisted).Inc()
	return nil
}

// forget удаляет трек, если его ещё не заменил более новый
func (i *LocationIngestor) forget(resourceID uuid.UUID, tr *locationTrack) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.tracks[resourceID] == tr {
		delete(i.tracks, resourceID)
	}
}
