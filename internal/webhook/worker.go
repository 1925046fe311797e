package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	signatureHeader = "X-Webhook-Signature"
	eventHeader     = "X-Webhook-Event"

	// popTimeout ограничивает BRPOP, чтобы воркер замечал отмену контекста
	popTimeout = time.Second
)

// WebhookWorker - структура для обработки и отправки вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Start запускает горутину для обработки очереди вебхуков
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go w.run(ctx)
}

func (w *WebhookWorker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			w.logger.Info("Stopping webhook worker.")
			return
		}

		// result[0] - ключ, result[1] - значение
		result, err := w.redisClient.BRPop(ctx, popTimeout, webhookQueueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
			sleepCtx(ctx, w.cfg.WebhookTimeout)
			continue
		}

		payload := result[1]
		var event models.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
			continue
		}

		w.processWebhookEvent(ctx, event, payload)
	}
}

// processWebhookEvent доставляет событие с экспоненциальной задержкой между попытками
func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event models.Event, rawPayload string) bool {
	log := w.logger.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"entity":    event.Entity,
		"entity_id": event.EntityID,
	})
	log.Debug("Processing webhook event...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		metrics.WebhookDeliveriesTotal.WithLabelValues("skipped").Inc()
		return false
	}

	maxRetries := w.cfg.WebhookMaxRetries
	delay := w.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		err := w.deliver(ctx, event, rawPayload)
		if err == nil {
			log.Info("Webhook delivered successfully.")
			metrics.WebhookDeliveriesTotal.WithLabelValues("delivered").Inc()
			return true
		}

		left := maxRetries - 1 - i
		log.WithError(err).Warnf("Webhook delivery failed. Retrying in %v. Retries left: %d", delay, left)
		if left == 0 || !sleepCtx(ctx, delay) {
			break
		}
		delay *= 2
	}

	log.Errorf("Failed to deliver webhook for event after %d retries.", maxRetries)
	metrics.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
	return false
}

func (w *WebhookWorker) deliver(ctx context.Context, event models.Event, rawPayload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventHeader, string(event.Entity)+"."+string(event.Operation))
	// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
	if w.cfg.WebhookSecret != "" {
		req.Header.Set(signatureHeader, generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}

// sleepCtx ждёт d; false, если контекст отменили раньше
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
