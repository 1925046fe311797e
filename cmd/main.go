package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/emergency_dispatch/internal/config"
	v1 "github.com/shenikar/emergency_dispatch/internal/handler/http/v1"
	"github.com/shenikar/emergency_dispatch/internal/hub"
	"github.com/shenikar/emergency_dispatch/internal/lock"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/repository"
	"github.com/shenikar/emergency_dispatch/internal/repository/memory"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/shenikar/emergency_dispatch/internal/webhook"
	"github.com/shenikar/emergency_dispatch/pkg/logger"
	"github.com/shenikar/emergency_dispatch/pkg/postgres"
	redisclient "github.com/shenikar/emergency_dispatch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/emergency_dispatch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Emergency Dispatch API
// @version 1.0
// @description Incident intake, nearest-resource dispatch, lifecycle tracking and live change feed.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey ActorToken
// @in header
// @name X-Actor-Token
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	// Контекст фоновых воркеров; отменяется при остановке
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище
	var store service.DispatchRepository
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")
		store = repository.NewRepository(dbpool)
	default:
		log.Warn("Using in-memory storage, state is lost on restart")
		store = memory.NewStore()
	}

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	var cache service.IncidentCache
	if redisClient != nil {
		cache = repository.NewIncidentCache(redisClient, cfg.IncidentCacheTTL)
	}

	var locker lock.Locker
	if cfg.LockDriver == config.LockDriverRedis {
		locker = lock.NewRedisLocker(redisClient)
	} else {
		memLocker := lock.NewMemoryLocker()
		defer memLocker.Stop()
		locker = memLocker
	}

	// Fan-out: локальный hub; в режиме redis события идут через канал Pub/Sub,
	// чтобы подписчики всех реплик видели изменения друг друга
	events := hub.New(cfg.HubBufferSize, log)
	defer events.Close()
	var publisher service.EventPublisher = events
	var subscriber service.EventSubscriber = events
	if cfg.FanoutMode == config.FanoutModeRedis {
		bridge := hub.NewRedisBridge(redisClient, events, log)
		publisher, subscriber = bridge, bridge
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.WithError(err).Error("Redis event bridge stopped")
			}
		}()
	}

	authz, err := service.NewTransitionAuthorizer()
	if err != nil {
		log.Fatalf("Failed to build transition authorizer: %v", err)
	}

	// Инициализация сервисов
	registry := service.NewResourceRegistry(store, publisher, log)
	facilities := service.NewFacilityDirectory(store, log)
	dispatch := service.NewDispatchService(service.DispatchDeps{
		Repo:       store,
		Matcher:    service.NewMatcher(registry, log),
		Facilities: facilities,
		Authorizer: authz,
		Locker:     locker,
		Publisher:  publisher,
		Cache:      cache,
		Logger:     log,
		Config:     cfg,
	})

	ingestor := service.NewLocationIngestor(registry, cfg.LocationMinInterval, log)
	go ingestor.Run(ctx)

	sweeper := service.NewPendingSweeper(dispatch, store, subscriber, cfg.RetrySchedule, log)
	go func() {
		if err := sweeper.Run(ctx); err != nil {
			log.WithError(err).Error("Pending sweeper stopped")
		}
	}()

	// Вебхуки: события из hub ставятся в очередь Redis, воркер доставляет их
	if cfg.WebhookURL != "" {
		forwarder := webhook.NewForwarder(subscriber, webhook.NewRedisWebhookPublisher(redisClient), log)
		go func() {
			if err := forwarder.Run(ctx); err != nil {
				log.WithError(err).Error("Webhook forwarder stopped")
			}
		}()
		webhook.NewWebhookWorker(redisClient, log, cfg).Start(ctx)
	}

	handler := v1.NewHandler(v1.Deps{
		Dispatch:   dispatch,
		Registry:   registry,
		Facilities: facilities,
		Locations:  ingestor,
		Events:     subscriber,
	}, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// SSE-потоки держат соединения, поэтому сначала закрываем hub
	events.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	cancel()

	log.Info("Server gracefully stopped")
}
