package hub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "dispatch:events:"

// RedisBridge публикует события в Redis Pub/Sub и доставляет полученные сообщения в локальный Hub.
// Так несколько экземпляров API видят одни и те же изменения.
type RedisBridge struct {
	client *redis.Client
	local  *Hub
	logger *logrus.Logger
}

// NewRedisBridge создает мост между Redis и локальным Hub
func NewRedisBridge(client *redis.Client, local *Hub, logger *logrus.Logger) *RedisBridge {
	return &RedisBridge{
		client: client,
		local:  local,
		logger: logger,
	}
}

func channelFor(entity models.Entity) string {
	return channelPrefix + string(entity)
}

// Publish отправляет событие в канал его сущности
func (b *RedisBridge) Publish(ctx context.Context, ev models.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, channelFor(ev.Entity), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to Redis: %w", err)
	}
	return nil
}

// Subscribe подписывает на локальный Hub, куда мост складывает события
func (b *RedisBridge) Subscribe(ctx context.Context, topic models.Topic) (*Subscription, error) {
	return b.local.Subscribe(ctx, topic)
}

// Run слушает каналы всех сущностей до отмены ctx
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx,
		channelFor(models.EntityIncidents),
		channelFor(models.EntityResources),
		channelFor(models.EntityAssignments),
	)
	defer pubsub.Close()

	// дожидаемся подтверждения подписки, иначе первые события могут потеряться
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to event channels: %w", err)
	}
	b.logger.Info("Redis event bridge subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping Redis event bridge.")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.WithError(err).WithField("channel", msg.Channel).Error("Failed to unmarshal event from Redis")
				continue
			}
			if err := b.local.Publish(ctx, ev); err != nil {
				b.logger.WithError(err).Error("Failed to publish bridged event")
			}
		}
	}
}
