package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/emergency_dispatch/internal/hub"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const sweepBatchSize = 50

var resourceTopic = models.Topic{Entity: models.EntityResources}

// EventSubscriber - источник событий об изменениях (локальный hub или мост через Redis)
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic models.Topic) (*hub.Subscription, error)
}

// PendingSweeper повторно пытается назначить машины инцидентам, оставшимся в pending.
// Проход запускается по расписанию и при появлении свободной машины.
type PendingSweeper struct {
	dispatcher DispatchService
	incidents  IncidentRepository
	events     EventSubscriber
	schedule   string
	logger     *logrus.Logger
	kick       chan struct{}
}

func NewPendingSweeper(dispatcher DispatchService, incidents IncidentRepository, events EventSubscriber, schedule string, logger *logrus.Logger) *PendingSweeper {
	return &PendingSweeper{
		dispatcher: dispatcher,
		incidents:  incidents,
		events:     events,
		schedule:   schedule,
		logger:     logger,
		kick:       make(chan struct{}, 1),
	}
}

// Kick просит выполнить проход; повторные запросы до начала прохода схлопываются
func (s *PendingSweeper) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run блокируется до отмены контекста
func (s *PendingSweeper) Run(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sweeper",
		"method":  "Run",
	})

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.Kick); err != nil {
		return fmt.Errorf("service: invalid retry schedule %q: %w", s.schedule, err)
	}
	c.Start()
	defer c.Stop()

	if s.events != nil {
		sub, err := s.events.Subscribe(ctx, resourceTopic)
		if err != nil {
			return fmt.Errorf("service: could not subscribe to resource events: %w", err)
		}
		go s.watchResources(ctx, sub)
	}

	log.WithField("schedule", s.schedule).Info("Pending incident sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Pending incident sweeper stopped")
			return nil
		case <-s.kick:
			if _, err := s.RunOnce(ctx); err != nil {
				log.WithError(err).Error("Pending sweep failed")
			}
		}
	}
}

// watchResources запускает проход, когда машина становится свободной.
// Отставшая подписка пересоздаётся; подписка закрывается вместе с ctx.
func (s *PendingSweeper) watchResources(ctx context.Context, sub *hub.Subscription) {
	for {
		for ev := range sub.Events() {
			var resource models.Resource
			if err := json.Unmarshal(ev.NewState, &resource); err != nil {
				continue
			}
			if resource.IsAvailable && resource.Location != nil {
				s.Kick()
			}
		}
		reason := sub.Err()
		if ctx.Err() != nil || !errors.Is(reason, hub.ErrSlowSubscriber) {
			return
		}

		log := s.logger.WithField("service", "sweeper")
		log.Warn("Sweeper fell behind on resource events, resubscribing")
		// пропущенные события могли содержать освободившуюся машину
		s.Kick()

		var err error
		sub, err = s.events.Subscribe(ctx, resourceTopic)
		if err != nil {
			if !errors.Is(err, hub.ErrClosed) {
				log.WithError(err).Error("Sweeper could not resubscribe to resource events")
			}
			return
		}
	}
}

// RunOnce проходит по всем ожидающим инцидентам от самых старых страницами по sweepBatchSize
// и возвращает число назначенных
func (s *PendingSweeper) RunOnce(ctx context.Context) (int, error) {
	var (
		cursor   models.PendingCursor
		seen     int
		assigned int
	)
	for ctx.Err() == nil {
		page, err := s.incidents.ListPendingIncidents(ctx, cursor, sweepBatchSize)
		if err != nil {
			return assigned, fmt.Errorf("service: could not list pending incidents: %w", err)
		}
		for _, incident := range page {
			if ctx.Err() != nil {
				break
			}
			seen++
			if s.retry(ctx, incident) {
				assigned++
			}
		}
		if len(page) < sweepBatchSize {
			break
		}
		cursor = cursor.After(page[len(page)-1])
	}

	if seen > 0 {
		s.logger.WithFields(logrus.Fields{
			"service":  "sweeper",
			"pending":  seen,
			"assigned": assigned,
		}).Info("Pending sweep finished")
	}
	return assigned, nil
}

// retry сообщает, удалось ли назначить машину
func (s *PendingSweeper) retry(ctx context.Context, incident *models.Incident) bool {
	_, err := s.dispatcher.Dispatch(ctx, incident.ID, models.SystemActor)
	switch {
	case err == nil:
		metrics.PendingRetriesTotal.WithLabelValues("assigned").Inc()
		return true
	case errors.Is(err, ErrNoResourceFound):
		metrics.PendingRetriesTotal.WithLabelValues("no_resource").Inc()
	case errors.Is(err, ErrConflict), errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrResourceUnavailable):
		// инцидент уже обрабатывается другим запросом
		metrics.PendingRetriesTotal.WithLabelValues("skipped").Inc()
	default:
		metrics.PendingRetriesTotal.WithLabelValues("error").Inc()
		s.logger.WithField("incident_id", incident.ID).WithError(err).Warn("Pending incident dispatch failed")
	}
	return false
}
