package cache

import (
	"context"
	"sync"
	"time"
)

// Resolver produces the value for one batch of callers.
type Resolver func(ctx context.Context) (interface{}, error)

type batch struct {
	done  chan struct{}
	value interface{}
	err   error
}

// Batcher coalesces concurrent callers that share a key into a single
// resolver invocation. The first caller for a key opens a collection window;
// everyone who arrives inside it waits on the same result. The resolver runs
// once per window, after the window closes.
type Batcher struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*batch
}

func NewBatcher(window time.Duration) *Batcher {
	return &Batcher{
		window:  window,
		pending: make(map[string]*batch),
	}
}

// Do joins (or opens) the batch for key and blocks until the resolver's
// value or error fans out, or ctx is done.
func (b *Batcher) Do(ctx context.Context, key string, resolve Resolver) (interface{}, error) {
	b.mu.Lock()
	if cur, ok := b.pending[key]; ok {
		b.mu.Unlock()
		return cur.wait(ctx)
	}

	cur := &batch{done: make(chan struct{})}
	b.pending[key] = cur
	b.mu.Unlock()

	go func() {
		time.Sleep(b.window)

		b.mu.Lock()
		delete(b.pending, key)
		b.mu.Unlock()

		cur.value, cur.err = resolve(context.Background())
		close(cur.done)
	}()

	return cur.wait(ctx)
}

func (bt *batch) wait(ctx context.Context) (interface{}, error) {
	select {
	case <-bt.done:
		return bt.value, bt.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
