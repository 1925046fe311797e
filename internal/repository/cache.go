package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
)

// setIfNewerScript пишет карточку, только если её версия не старше уже закэшированной.
// Ключ версии переживает инвалидацию, поэтому запоздавшее чтение из БД не вернёт старую карточку.
var setIfNewerScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if current and tonumber(ARGV[1]) < tonumber(current) then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ttl)
	redis.call("SET", KEYS[2], ARGV[1], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[2])
	redis.call("SET", KEYS[2], ARGV[1])
end
return 1
`)

// IncidentCache - кэш карточек инцидентов в Redis
type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(redisClient *redis.Client, ttl time.Duration) service.IncidentCache {
	return &IncidentCache{redisClient: redisClient, ttl: ttl}
}

func incidentKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

func incidentVersionKey(id uuid.UUID) string {
	return incidentKey(id) + ":version"
}

// GetIncident пытается получить инцидент из Redis
func (c *IncidentCache) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := c.redisClient.Get(ctx, incidentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncident сохраняет инцидент в Redis. Более старая версия, чем уже известная кэшу, молча отбрасывается.
func (c *IncidentCache) SetIncident(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	keys := []string{incidentKey(incident.ID), incidentVersionKey(incident.ID)}
	err = setIfNewerScript.Run(ctx, c.redisClient, keys, incident.Version, val, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncident удаляет карточку из Redis кэша; известная версия остаётся
func (c *IncidentCache) InvalidateIncident(ctx context.Context, id uuid.UUID) error {
	if err := c.redisClient.Del(ctx, incidentKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
