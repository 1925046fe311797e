// Package hub рассылает принятые изменения состояния всем подписанным наблюдателям.
//
// Доставка best-effort: у каждого подписчика ограниченный буфер, порядок событий
// внутри темы сохраняется, повтора пропущенного нет. Подписчик, не успевающий
// читать, отключается с ErrSlowSubscriber и должен перечитать текущее состояние.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shenikar/emergency_dispatch/internal/metrics"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrSlowSubscriber = errors.New("hub: subscriber buffer overflow")
	ErrClosed         = errors.New("hub: closed")
	ErrInvalidTopic   = errors.New("hub: invalid topic")
)

// Hub - внутрипроцессный брокер событий
type Hub struct {
	mu         sync.Mutex
	subs       map[uint64]*Subscription
	nextID     uint64
	bufferSize int
	closed     bool
	logger     *logrus.Logger
}

// New создает Hub с буфером bufferSize событий на подписчика
func New(bufferSize int, logger *logrus.Logger) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub{
		subs:       make(map[uint64]*Subscription),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Subscription - долгоживущий поток событий одной темы
type Subscription struct {
	id     uint64
	topic  models.Topic
	events chan models.Event
	done   chan struct{}
	err    error
	hub    *Hub
}

// Events возвращает канал событий. Канал закрывается при отключении подписчика.
func (s *Subscription) Events() <-chan models.Event {
	return s.events
}

// Done закрывается одновременно с каналом событий
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err возвращает причину отключения; nil, если подписчик ушёл сам
func (s *Subscription) Err() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.err
}

// Topic возвращает тему подписки
func (s *Subscription) Topic() models.Topic {
	return s.topic
}

// Close отписывает наблюдателя
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.removeLocked(s, nil)
}

// Subscribe регистрирует наблюдателя темы. Отмена ctx отключает его.
func (h *Hub) Subscribe(ctx context.Context, topic models.Topic) (*Subscription, error) {
	if !topic.Entity.Valid() {
		return nil, fmt.Errorf("%w: unknown entity %q", ErrInvalidTopic, topic.Entity)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	h.nextID++
	sub := &Subscription{
		id:     h.nextID,
		topic:  topic,
		events: make(chan models.Event, h.bufferSize),
		done:   make(chan struct{}),
		hub:    h,
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	metrics.HubSubscribers.Inc()
	h.logger.WithFields(logrus.Fields{
		"component":     "hub",
		"topic":         topic.String(),
		"subscriber_id": sub.id,
	}).Debug("Subscriber connected")

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// Publish рассылает событие всем подходящим подписчикам.
// Публикации сериализуются, поэтому каждый подписчик видит события в порядке публикации.
func (h *Hub) Publish(_ context.Context, ev models.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	metrics.HubEventsPublishedTotal.WithLabelValues(string(ev.Entity)).Inc()
	for _, sub := range h.subs {
		if !sub.topic.Matches(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			metrics.HubSlowSubscribersTotal.Inc()
			h.logger.WithFields(logrus.Fields{
				"component":     "hub",
				"topic":         sub.topic.String(),
				"subscriber_id": sub.id,
			}).Warn("Disconnecting slow subscriber")
			h.removeLocked(sub, ErrSlowSubscriber)
		}
	}
	return nil
}

// Len возвращает число активных подписчиков
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close отключает всех подписчиков и перестаёт принимать события
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		h.removeLocked(sub, ErrClosed)
	}
}

// removeLocked вызывается под h.mu, поэтому закрытие канала не гонится с отправкой в Publish
func (h *Hub) removeLocked(sub *Subscription, reason error) {
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	sub.err = reason
	close(sub.events)
	close(sub.done)
	metrics.HubSubscribers.Dec()
}
