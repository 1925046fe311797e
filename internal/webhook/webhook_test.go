package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/hub"
	"github.com/shenikar/emergency_dispatch/internal/metrics"
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

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newEvent(t *testing.T) models.Event {
	t.Helper()
	incidentID := uuid.New()
	ev, err := models.NewEvent(models.EntityIncidents, models.OperationUpdate, incidentID,
		&models.Incident{ID: incidentID, Status: models.StatusAssigned})
	require.NoError(t, err)
	return ev
}

// receiver - тестовый приёмник вебхуков
type receiver struct {
	mu         sync.Mutex
	bodies     []string
	signatures []string
	kinds      []string
	failFirst  int32
	calls      atomic.Int32
}

func (r *receiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	n := r.calls.Add(1)
	if n <= r.failFirst {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.bodies = append(r.bodies, string(body))
	r.signatures = append(r.signatures, req.Header.Get(signatureHeader))
	r.kinds = append(r.kinds, req.Header.Get(eventHeader))
	r.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (r *receiver) delivered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func testConfig(url string) *config.Config {
	return &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
}

func TestWorker_DeliversQueuedEventWithSignature(t *testing.T) {
	// Подготовка
	_, client := newTestRedis(t)
	rcv := &receiver{}
	srv := httptest.NewServer(rcv)
	defer srv.Close()

	worker := NewWebhookWorker(client, newTestLogger(), testConfig(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ev := newEvent(t)

	// Действие
	require.NoError(t, NewRedisWebhookPublisher(client).Publish(ctx, ev))
	worker.Start(ctx)

	// Проверки
	require.Eventually(t, func() bool { return rcv.delivered() == 1 }, 3*time.Second, 10*time.Millisecond)
	rcv.mu.Lock()
	defer rcv.mu.Unlock()

	var got models.Event
	require.NoError(t, json.Unmarshal([]byte(rcv.bodies[0]), &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, ev.EntityID, got.EntityID)
	assert.Equal(t, generateHMACSHA256(rcv.bodies[0], "s3cret"), rcv.signatures[0])
	assert.Equal(t, "incidents.update", rcv.kinds[0])
}

func TestProcessWebhookEvent_RetriesUntilSuccess(t *testing.T) {
	rcv := &receiver{failFirst: 2}
	srv := httptest.NewServer(rcv)
	defer srv.Close()
	worker := NewWebhookWorker(nil, newTestLogger(), testConfig(srv.URL))
	ev := newEvent(t)
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	before := testutil.ToFloat64(metrics.WebhookDeliveriesTotal.WithLabelValues("delivered"))

	ok := worker.processWebhookEvent(context.Background(), ev, string(payload))

	assert.True(t, ok)
	assert.Equal(t, int32(3), rcv.calls.Load())
	assert.Equal(t, 1, rcv.delivered())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WebhookDeliveriesTotal.WithLabelValues("delivered")))
}

func TestProcessWebhookEvent_GivesUpAfterMaxRetries(t *testing.T) {
	rcv := &receiver{failFirst: 100}
	srv := httptest.NewServer(rcv)
	defer srv.Close()
	worker := NewWebhookWorker(nil, newTestLogger(), testConfig(srv.URL))
	ev := newEvent(t)
	payload, _ := json.Marshal(ev)
	before := testutil.ToFloat64(metrics.WebhookDeliveriesTotal.WithLabelValues("failed"))

	ok := worker.processWebhookEvent(context.Background(), ev, string(payload))

	assert.False(t, ok)
	assert.Equal(t, int32(3), rcv.calls.Load())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WebhookDeliveriesTotal.WithLabelValues("failed")))
}

func TestProcessWebhookEvent_SkipsWithoutURL(t *testing.T) {
	worker := NewWebhookWorker(nil, newTestLogger(), testConfig(""))
	ev := newEvent(t)

	assert.False(t, worker.processWebhookEvent(context.Background(), ev, "{}"))
}

func TestForwarder_EnqueuesIncidentAndAssignmentEvents(t *testing.T) {
	// Подготовка
	mr, client := newTestRedis(t)
	events := hub.New(16, newTestLogger())
	defer events.Close()
	forwarder := NewForwarder(events, NewRedisWebhookPublisher(client), newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- forwarder.Run(ctx) }()
	require.Eventually(t, func() bool { return events.Len() == 2 }, time.Second, 5*time.Millisecond)

	// Действие
	require.NoError(t, events.Publish(ctx, newEvent(t)))
	assignmentEv, err := models.NewEvent(models.EntityAssignments, models.OperationInsert, uuid.New(), &models.Assignment{})
	require.NoError(t, err)
	require.NoError(t, events.Publish(ctx, assignmentEv))
	resourceEv, err := models.NewEvent(models.EntityResources, models.OperationUpdate, uuid.New(), &models.Resource{})
	require.NoError(t, err)
	require.NoError(t, events.Publish(ctx, resourceEv))

	// Проверки: машины во внешний сервис не пересылаются
	require.Eventually(t, func() bool {
		queued, err := mr.List(webhookQueueKey)
		return err == nil && len(queued) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestGenerateHMACSHA256(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t,
		"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
		generateHMACSHA256("The quick brown fox jumps over the lazy dog", "key"))
}
