package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker - блокировки в памяти процесса с TTL.
// TTL не даёт зависшему обработчику держать ключ вечно.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]lockEntry
	stop  chan struct{}
	once  sync.Once
	now   func() time.Time
}

// NewMemoryLocker создаёт MemoryLocker и запускает фоновую очистку просроченных ключей
func NewMemoryLocker() *MemoryLocker {
	l := &MemoryLocker{
		locks: make(map[string]lockEntry),
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	go l.cleanupExpired(time.Second)
	return l
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (ReleaseFunc, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, exists := l.locks[key]; exists && now.Before(entry.expiresAt) {
		return nil, false, nil
	}

	token := uuid.NewString()
	l.locks[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// ключ мог истечь и достаться другому владельцу
		if entry, exists := l.locks[key]; exists && entry.token == token {
			delete(l.locks, key)
		}
		return nil
	}, true, nil
}

// IsLocked сообщает, удерживается ли ключ сейчас
func (l *MemoryLocker) IsLocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, exists := l.locks[key]
	return exists && l.now().Before(entry.expiresAt)
}

func (l *MemoryLocker) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, entry := range l.locks {
				if !now.Before(entry.expiresAt) {
					delete(l.locks, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Stop останавливает фоновую очистку
func (l *MemoryLocker) Stop() {
	l.once.Do(func() { close(l.stop) })
}
