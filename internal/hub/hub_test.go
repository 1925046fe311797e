package hub

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func mustEvent(t *testing.T, entity models.Entity, id uuid.UUID, state any, related ...uuid.UUID) models.Event {
	t.Helper()
	ev, err := models.NewEvent(entity, models.OperationUpdate, id, state, related...)
	require.NoError(t, err)
	return ev
}

func receive(t *testing.T, sub *Subscription) models.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return models.Event{}
}

func TestHub_DeliversInOrderToMatchingTopics(t *testing.T) {
	h := New(16, newTestLogger())
	defer h.Close()
	ctx := context.Background()
	incidentID := uuid.New()

	all, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityIncidents})
	require.NoError(t, err)
	one, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityIncidents, ID: incidentID})
	require.NoError(t, err)
	resources, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityResources})
	require.NoError(t, err)

	first := mustEvent(t, models.EntityIncidents, incidentID, map[string]int{"seq": 1})
	other := mustEvent(t, models.EntityIncidents, uuid.New(), map[string]int{"seq": 2})
	second := mustEvent(t, models.EntityIncidents, incidentID, map[string]int{"seq": 3})
	for _, ev := range []models.Event{first, other, second} {
		require.NoError(t, h.Publish(ctx, ev))
	}

	assert.Equal(t, first.ID, receive(t, all).ID)
	assert.Equal(t, other.ID, receive(t, all).ID)
	assert.Equal(t, second.ID, receive(t, all).ID)

	assert.Equal(t, first.ID, receive(t, one).ID)
	assert.Equal(t, second.ID, receive(t, one).ID)

	assert.Len(t, resources.Events(), 0)
}

func TestHub_SlowSubscriberIsDisconnected(t *testing.T) {
	h := New(2, newTestLogger())
	defer h.Close()
	ctx := context.Background()

	slow, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityResources})
	require.NoError(t, err)
	fast, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityResources})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Publish(ctx, mustEvent(t, models.EntityResources, uuid.New(), i)))
		if i < 2 {
			receive(t, fast)
		}
	}

	// буфер медленного заполнен двумя событиями, третье его отключило
	<-slow.Done()
	assert.ErrorIs(t, slow.Err(), ErrSlowSubscriber)
	count := 0
	for range slow.Events() {
		count++
	}
	assert.Equal(t, 2, count)

	receive(t, fast)
	assert.NoError(t, fast.Err())
	assert.Equal(t, 1, h.Len())
}

func TestHub_ContextCancelTearsDownStream(t *testing.T) {
	h := New(4, newTestLogger())
	defer h.Close()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityIncidents})
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())

	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed after cancel")
	}
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.NoError(t, sub.Err())
	assert.Equal(t, 0, h.Len())

	// повторное закрытие безопасно
	sub.Close()
}

func TestHub_InvalidTopicAndClosedHub(t *testing.T) {
	h := New(4, newTestLogger())
	ctx := context.Background()

	_, err := h.Subscribe(ctx, models.Topic{Entity: "patients"})
	assert.ErrorIs(t, err, ErrInvalidTopic)

	sub, err := h.Subscribe(ctx, models.Topic{Entity: models.EntityAssignments})
	require.NoError(t, err)

	h.Close()
	<-sub.Done()
	assert.ErrorIs(t, sub.Err(), ErrClosed)

	_, err = h.Subscribe(ctx, models.Topic{Entity: models.EntityAssignments})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, h.Publish(ctx, mustEvent(t, models.EntityAssignments, uuid.New(), 1)), ErrClosed)
}

func TestRedisBridge_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	local := New(8, newTestLogger())
	defer local.Close()
	bridge := NewRedisBridge(client, local, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channelFor(models.EntityIncidents))[channelFor(models.EntityIncidents)] > 0
	}, 2*time.Second, 10*time.Millisecond)

	sub, err := bridge.Subscribe(ctx, models.Topic{Entity: models.EntityIncidents})
	require.NoError(t, err)

	ev := mustEvent(t, models.EntityIncidents, uuid.New(), map[string]string{"status": "assigned"})
	require.NoError(t, bridge.Publish(ctx, ev))

	got := receive(t, sub)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, ev.EntityID, got.EntityID)
	assert.JSONEq(t, string(ev.NewState), string(got.NewState))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not stop")
	}
}
