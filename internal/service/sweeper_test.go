package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/hub"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/shenikar/emergency_dispatch/internal/service"
	"github.com/shenikar/emergency_dispatch/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPendingSweeper_RunOnceCountsAssignments(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	dispatchMock := mocks.NewMockDispatchService(ctrl)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	sweeper := service.NewPendingSweeper(dispatchMock, repoMock, nil, "@every 1m", newTestLogger())
	ctx := context.Background()

	pending := []*models.Incident{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}

	// Ожидания
	repoMock.EXPECT().ListPendingIncidents(ctx, models.PendingCursor{}, gomock.Any()).Return(pending, nil).Times(1)
	gomock.InOrder(
		dispatchMock.EXPECT().Dispatch(ctx, pending[0].ID, models.SystemActor).Return(&models.Incident{Status: models.StatusAssigned}, nil),
		dispatchMock.EXPECT().Dispatch(ctx, pending[1].ID, models.SystemActor).Return(nil, service.ErrNoResourceFound),
		dispatchMock.EXPECT().Dispatch(ctx, pending[2].ID, models.SystemActor).Return(nil, service.ErrConflict),
		dispatchMock.EXPECT().Dispatch(ctx, pending[3].ID, models.SystemActor).Return(nil, errors.New("boom")),
	)

	// Действие
	assigned, err := sweeper.RunOnce(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)
}

func TestPendingSweeper_RunOnceRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatchMock := mocks.NewMockDispatchService(ctrl)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	sweeper := service.NewPendingSweeper(dispatchMock, repoMock, nil, "@every 1m", newTestLogger())

	repoMock.EXPECT().ListPendingIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	dispatchMock.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := sweeper.RunOnce(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestPendingSweeper_InvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	sweeper := service.NewPendingSweeper(mocks.NewMockDispatchService(ctrl), mocks.NewMockIncidentRepository(ctrl), nil, "not a schedule", newTestLogger())

	err := sweeper.Run(context.Background())
	assert.ErrorContains(t, err, "invalid retry schedule")
}

func TestPendingSweeper_AvailableResourceTriggersSweep(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	dispatchMock := mocks.NewMockDispatchService(ctrl)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	events := hub.New(8, newTestLogger())
	defer events.Close()
	sweeper := service.NewPendingSweeper(dispatchMock, repoMock, events, "@every 1h", newTestLogger())

	swept := make(chan struct{}, 1)
	repoMock.EXPECT().ListPendingIncidents(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.PendingCursor, int) ([]*models.Incident, error) {
			swept <- struct{}{}
			return nil, nil
		}).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()
	require.Eventually(t, func() bool { return events.Len() == 1 }, time.Second, 5*time.Millisecond)

	// Действие: машина освободилась
	p := geo.Point{Lat: 9.02, Lon: 38.75}
	ev, err := models.NewEvent(models.EntityResources, models.OperationUpdate, uuid.New(),
		&models.Resource{IsAvailable: true, Location: &p})
	require.NoError(t, err)
	require.NoError(t, events.Publish(ctx, ev))

	// Проверки
	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweep was not triggered by an available resource")
	}
	cancel()
	assert.NoError(t, <-done)
}

func TestPendingSweeper_RunOnceWalksPastUnmatchablePage(t *testing.T) {
	// Подготовка: первая страница целиком из инцидентов без подходящей машины
	ctrl := gomock.NewController(t)
	dispatchMock := mocks.NewMockDispatchService(ctrl)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	sweeper := service.NewPendingSweeper(dispatchMock, repoMock, nil, "@every 1m", newTestLogger())
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stuck := make([]*models.Incident, 50)
	for i := range stuck {
		stuck[i] = &models.Incident{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Second)}
	}
	reachable := &models.Incident{ID: uuid.New(), CreatedAt: base.Add(time.Hour)}
	last := stuck[len(stuck)-1]

	// Ожидания
	gomock.InOrder(
		repoMock.EXPECT().ListPendingIncidents(ctx, models.PendingCursor{}, 50).Return(stuck, nil),
		repoMock.EXPECT().ListPendingIncidents(ctx, models.PendingCursor{CreatedAt: last.CreatedAt, ID: last.ID}, 50).
			Return([]*models.Incident{reachable}, nil),
	)
	for _, incident := range stuck {
		dispatchMock.EXPECT().Dispatch(ctx, incident.ID, models.SystemActor).Return(nil, service.ErrNoResourceFound)
	}
	dispatchMock.EXPECT().Dispatch(ctx, reachable.ID, models.SystemActor).
		Return(&models.Incident{ID: reachable.ID, Status: models.StatusAssigned}, nil)

	// Действие
	assigned, err := sweeper.RunOnce(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)
}

// overflowingSubscriber переполняет первую подписку сразу после создания
type overflowingSubscriber struct {
	*hub.Hub
	mu    sync.Mutex
	calls int
}

func (o *overflowingSubscriber) Subscribe(ctx context.Context, topic models.Topic) (*hub.Subscription, error) {
	sub, err := o.Hub.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.calls++
	first := o.calls == 1
	o.mu.Unlock()
	if first {
		for i := 0; i < 3; i++ {
			ev, err := models.NewEvent(models.EntityResources, models.OperationUpdate, uuid.New(), &models.Resource{IsAvailable: false})
			if err != nil {
				return nil, err
			}
			if err := o.Hub.Publish(ctx, ev); err != nil {
				return nil, err
			}
		}
	}
	return sub, nil
}

func (o *overflowingSubscriber) subscribeCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func TestPendingSweeper_ResubscribesAfterFallingBehind(t *testing.T) {
	// Подготовка: буфер на одно событие, первая подписка отключается как медленная
	ctrl := gomock.NewController(t)
	dispatchMock := mocks.NewMockDispatchService(ctrl)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	events := &overflowingSubscriber{Hub: hub.New(1, newTestLogger())}
	defer events.Close()
	sweeper := service.NewPendingSweeper(dispatchMock, repoMock, events, "@every 1h", newTestLogger())

	swept := make(chan struct{}, 4)
	repoMock.EXPECT().ListPendingIncidents(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.PendingCursor, int) ([]*models.Incident, error) {
			swept <- struct{}{}
			return nil, nil
		}).MinTimes(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	// Проверки: подписка восстановлена, пропуск событий компенсирован проходом
	require.Eventually(t, func() bool {
		return events.subscribeCalls() == 2 && events.Len() == 1
	}, time.Second, 5*time.Millisecond)
	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweep was not triggered after resubscribing")
	}

	// Действие: новая подписка по-прежнему реагирует на свободную машину
	p := geo.Point{Lat: 9.02, Lon: 38.75}
	ev, err := models.NewEvent(models.EntityResources, models.OperationUpdate, uuid.New(),
		&models.Resource{IsAvailable: true, Location: &p})
	require.NoError(t, err)
	require.NoError(t, events.Publish(ctx, ev))

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweep was not triggered by an available resource after resubscribing")
	}
	cancel()
	assert.NoError(t, <-done)
}
