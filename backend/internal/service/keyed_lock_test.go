package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexExclusive(t *testing.T) {
	k := newKeyedMutex()
	ctx := context.Background()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(ctx, 1, time.Second)
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, k.size(), "idle ids release their entry")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	ctx := context.Background()

	unlock1, err := k.Lock(ctx, 1, time.Second)
	require.NoError(t, err)
	defer unlock1()

	unlock2, err := k.Lock(ctx, 2, 10*time.Millisecond)
	require.NoError(t, err, "a held lock on one issue never blocks another")
	unlock2()
}

func TestKeyedMutexTimeout(t *testing.T) {
	k := newKeyedMutex()
	ctx := context.Background()

	unlock, err := k.Lock(ctx, 7, time.Second)
	require.NoError(t, err)

	_, err = k.Lock(ctx, 7, 20*time.Millisecond)
	assert.True(t, errors.IsKind(err, errors.KindConflict))
	assert.Equal(t, 1, k.size())

	unlock()
	unlock() // second call is a no-op
	assert.Zero(t, k.size())
}

func TestKeyedMutexContextCancel(t *testing.T) {
	k := newKeyedMutex()

	unlock, err := k.Lock(context.Background(), 7, 0)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err = k.Lock(ctx, 7, 0)
	assert.True(t, errors.IsKind(err, errors.KindConflict))
}
