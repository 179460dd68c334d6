package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcherCoalescesConcurrentCallers(t *testing.T) {
	b := NewBatcher(50 * time.Millisecond)

	var calls int32
	resolve := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "result", nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]interface{}, waiters)
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = b.Do(context.Background(), "guides", resolve)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "result", results[i])
	}
}

func TestBatcherDistinctKeysResolveIndependently(t *testing.T) {
	b := NewBatcher(10 * time.Millisecond)

	var calls int32
	resolve := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, _ = b.Do(context.Background(), key, resolve)
		}(key)
	}
	wg.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBatcherFansOutError(t *testing.T) {
	b := NewBatcher(20 * time.Millisecond)
	boom := errors.New("resolver down")

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.Do(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
				return nil, boom
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, errs[i], boom)
	}
}

func TestBatcherNewWindowAfterResolve(t *testing.T) {
	b := NewBatcher(5 * time.Millisecond)

	var calls int32
	resolve := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	_, err := b.Do(context.Background(), "k", resolve)
	require.NoError(t, err)
	_, err = b.Do(context.Background(), "k", resolve)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBatcherHonorsContextCancellation(t *testing.T) {
	b := NewBatcher(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Do(ctx, "k", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
