package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	FanoutModeLocal = "local"
	FanoutModeRedis = "redis"

	LockDriverMemory = "memory"
	LockDriverRedis  = "redis"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"postgres"`
	HTTPPort      string `env:"HTTP_PORT" env-default:"8080"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" env-default:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" env-default:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" env-default:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" env-default:"1s"`

	// Dispatch Config
	MatchRadiusKm       float64       `env:"MATCH_RADIUS_KM" env-default:"10"`
	AutoDispatch        bool          `env:"AUTO_DISPATCH" env-default:"true"`
	RetrySchedule       string        `env:"RETRY_SCHEDULE" env-default:"@every 30s"`
	LocationMinInterval time.Duration `env:"LOCATION_MIN_INTERVAL" env-default:"10s"`
	IncidentCacheTTL    time.Duration `env:"INCIDENT_CACHE_TTL" env-default:"5m"`

	// Fan-out и блокировки
	HubBufferSize int           `env:"HUB_BUFFER_SIZE" env-default:"64"`
	FanoutMode    string        `env:"FANOUT_MODE" env-default:"local"`
	LockDriver    string        `env:"LOCK_DRIVER" env-default:"memory"`
	LockTTL       time.Duration `env:"LOCK_TTL" env-default:"5s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS" env-separator:","`
	// секрет, которым внешний сервис авторизации подписывает токен участника
	ActorTokenSecret string `env:"ACTOR_TOKEN_SECRET"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	for i, key := range cfg.APIKeys {
		cfg.APIKeys[i] = strings.TrimSpace(key)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.FanoutMode != FanoutModeLocal && c.FanoutMode != FanoutModeRedis {
		return fmt.Errorf("unknown FANOUT_MODE %q", c.FanoutMode)
	}
	if c.LockDriver != LockDriverMemory && c.LockDriver != LockDriverRedis {
		return fmt.Errorf("unknown LOCK_DRIVER %q", c.LockDriver)
	}
	if c.MatchRadiusKm <= 0 {
		return fmt.Errorf("MATCH_RADIUS_KM must be positive, got %v", c.MatchRadiusKm)
	}
	if c.HubBufferSize < 1 {
		return fmt.Errorf("HUB_BUFFER_SIZE must be at least 1, got %d", c.HubBufferSize)
	}
	return nil
}

// NeedsRedis сообщает, нужен ли процессу Redis при текущих настройках
func (c *Config) NeedsRedis() bool {
	return c.StorageDriver == StorageDriverPostgres ||
		c.FanoutMode == FanoutModeRedis ||
		c.LockDriver == LockDriverRedis ||
		c.WebhookURL != ""
}
