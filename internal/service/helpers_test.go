package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/hub"
	"github.com/shenikar/emergency_dispatch/internal/lock"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/repository/memory"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	incidentPoint = geo.Point{Lat: 9.0200, Lon: 38.7500}
	dispatcher    = models.Actor{ID: "dispatcher-1", Role: models.RoleDispatcher}
	facilityOp    = models.Actor{ID: "er-desk-1", Role: models.RoleFacilityOperator}
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// testEnv - ядро на хранилище в памяти с настоящими блокировками и hub
type testEnv struct {
	store      *memory.Store
	repo       service.DispatchRepository
	hub        *hub.Hub
	locker     *lock.MemoryLocker
	registry   service.ResourceRegistry
	facilities service.FacilityDirectory
	dispatch   service.DispatchService
	cfg        *config.Config
}

func newTestEnv(t *testing.T, opts ...func(*testEnv)) *testEnv {
	t.Helper()

	env := &testEnv{
		store: memory.NewStore(),
		cfg: &config.Config{
			MatchRadiusKm: 10,
			AutoDispatch:  true,
			LockTTL:       5 * time.Second,
			HubBufferSize: 256,
		},
	}
	env.repo = env.store
	for _, opt := range opts {
		opt(env)
	}

	logger := newTestLogger()
	env.hub = hub.New(env.cfg.HubBufferSize, logger)
	env.locker = lock.NewMemoryLocker()
	t.Cleanup(func() {
		env.hub.Close()
		env.locker.Stop()
	})

	authz, err := service.NewTransitionAuthorizer()
	require.NoError(t, err)

	env.registry = service.NewResourceRegistry(env.repo, env.hub, logger)
	env.facilities = service.NewFacilityDirectory(env.repo, logger)
	env.dispatch = service.NewDispatchService(service.DispatchDeps{
		Repo:       env.repo,
		Matcher:    service.NewMatcher(env.registry, logger),
		Facilities: env.facilities,
		Authorizer: authz,
		Locker:     env.locker,
		Publisher:  env.hub,
		Logger:     logger,
		Config:     env.cfg,
	})
	return env
}

// addResource регистрирует свободную машину в точке с экипажем operatorID
func (e *testEnv) addResource(t *testing.T, tag, operatorID string, at geo.Point) *models.Resource {
	t.Helper()
	p := at
	resource := &models.Resource{
		Tag:         tag,
		Category:    "ambulance",
		OperatorID:  operatorID,
		IsAvailable: true,
		Location:    &p,
	}
	require.NoError(t, e.registry.RegisterResource(context.Background(), resource))
	return resource
}

func (e *testEnv) addFacility(t *testing.T, name string, at geo.Point) *models.Facility {
	t.Helper()
	facility := &models.Facility{Name: name, Location: at}
	require.NoError(t, e.facilities.RegisterFacility(context.Background(), facility))
	return facility
}

func (e *testEnv) report(t *testing.T, reporterID string) *models.Incident {
	t.Helper()
	incident := &models.Incident{
		ReporterID:  reporterID,
		Location:    incidentPoint,
		Category:    "medical",
		Severity:    "high",
		Description: "collapsed on the street",
	}
	require.NoError(t, e.dispatch.CreateIncident(context.Background(), incident))
	return incident
}

// seedIncident кладёт инцидент в нужном статусе прямо в хранилище
func (e *testEnv) seedIncident(t *testing.T, status models.IncidentStatus, resourceID *uuid.UUID) *models.Incident {
	t.Helper()
	incident := &models.Incident{
		ID:         uuid.New(),
		ReporterID: "reporter-1",
		Location:   incidentPoint,
		Status:     status,
	}
	if status.HasResource() {
		incident.AssignedResourceID = resourceID
	}
	require.NoError(t, e.store.CreateIncident(context.Background(), incident))
	return incident
}

func operator(id string) models.Actor {
	return models.Actor{ID: id, Role: models.RoleResourceOperator}
}

func reporter(id string) models.Actor {
	return models.Actor{ID: id, Role: models.RoleReporter}
}

// north смещает точку на km километров к северу
func north(p geo.Point, km float64) geo.Point {
	return geo.Point{Lat: p.Lat + km/111.195, Lon: p.Lon}
}
