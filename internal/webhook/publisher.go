package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/hub"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	webhookQueueKey = "dispatch:webhook_events"
)

// WebhookPublisher - интерфейс для постановки событий в очередь доставки
type WebhookPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая список Redis как очередь
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish кладёт событие в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// Subscriber - источник событий для пересылки
type Subscriber interface {
	Subscribe(ctx context.Context, topic models.Topic) (*hub.Subscription, error)
}

// Forwarder пересылает изменения инцидентов и назначений во внешний сервис уведомлений
type Forwarder struct {
	events    Subscriber
	publisher WebhookPublisher
	logger    *logrus.Logger
}

func NewForwarder(events Subscriber, publisher WebhookPublisher, logger *logrus.Logger) *Forwarder {
	return &Forwarder{events: events, publisher: publisher, logger: logger}
}

// Run блокируется до отмены контекста или закрытия hub.
// Отключённого за медлительность подписчика Forwarder переподписывает.
func (f *Forwarder) Run(ctx context.Context) error {
	topics := []models.Topic{
		{Entity: models.EntityIncidents},
		{Entity: models.EntityAssignments},
	}

	errs := make(chan error, len(topics))
	for _, topic := range topics {
		go func(topic models.Topic) {
			errs <- f.pump(ctx, topic)
		}(topic)
	}

	f.logger.Info("Webhook forwarder started")
	var firstErr error
	for range topics {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.logger.Info("Webhook forwarder stopped")
	return firstErr
}

func (f *Forwarder) pump(ctx context.Context, topic models.Topic) error {
	for {
		sub, err := f.events.Subscribe(ctx, topic)
		if errors.Is(err, hub.ErrClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to subscribe webhook forwarder to %s: %w", topic, err)
		}

		f.forward(ctx, sub)
		reason := sub.Err()
		sub.Close()
		if ctx.Err() != nil || !errors.Is(reason, hub.ErrSlowSubscriber) {
			return nil
		}
		f.logger.WithField("topic", topic.String()).Warn("Webhook forwarder fell behind, resubscribing")
	}
}

func (f *Forwarder) forward(ctx context.Context, sub *hub.Subscription) {
	for ev := range sub.Events() {
		if err := f.publisher.Publish(ctx, ev); err != nil {
			f.logger.WithFields(logrus.Fields{
				"entity":    ev.Entity,
				"entity_id": ev.EntityID,
			}).WithError(err).Error("Failed to enqueue webhook event")
		}
	}
}
