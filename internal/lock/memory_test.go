package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_ExclusiveUntilReleased(t *testing.T) {
	l := NewMemoryLocker()
	defer l.Stop()
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx, "incident:1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, l.IsLocked("incident:1"))

	_, ok, err = l.TryLock(ctx, "incident:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// другой ключ не зависит от первого
	_, ok, _ = l.TryLock(ctx, "incident:2", time.Minute)
	assert.True(t, ok)

	require.NoError(t, release(ctx))
	assert.False(t, l.IsLocked("incident:1"))

	_, ok, _ = l.TryLock(ctx, "incident:1", time.Minute)
	assert.True(t, ok)
}

func TestMemoryLocker_ExpiredLockCanBeTaken(t *testing.T) {
	// без фоновой очистки, чтобы управлять часами из теста
	now := time.Now()
	l := &MemoryLocker{
		locks: make(map[string]lockEntry),
		stop:  make(chan struct{}),
		now:   func() time.Time { return now },
	}
	ctx := context.Background()

	staleRelease, ok, _ := l.TryLock(ctx, "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = l.TryLock(ctx, "k", time.Minute)
	require.True(t, ok)

	// устаревший владелец не снимает чужую блокировку
	require.NoError(t, staleRelease(ctx))
	assert.True(t, l.IsLocked("k"))
}

func TestMemoryLocker_ConcurrentSingleWinner(t *testing.T) {
	l := NewMemoryLocker()
	defer l.Stop()

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := l.TryLock(context.Background(), "hot", time.Minute); ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}
