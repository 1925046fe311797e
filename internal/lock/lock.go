// Package lock сериализует конкурирующие операции над одной записью.
// Захват неблокирующий: проигравший сразу получает отказ и отвечает клиенту конфликтом.
package lock

import (
	"context"
	"time"
)

// ReleaseFunc освобождает захваченную блокировку
type ReleaseFunc func(ctx context.Context) error

// Locker - именованные блокировки с TTL
type Locker interface {
	// TryLock пытается захватить ключ. ok=false означает, что ключ уже занят.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release ReleaseFunc, ok bool, err error)
}
