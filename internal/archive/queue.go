package archive

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const jobTimeout = 15 * time.Second

// queue runs do for each entry on a fixed worker pool. Entries are dropped
// when the buffer is full; the request path never blocks on it.
type queue struct {
	ch      chan Entry
	do      func(ctx context.Context, e Entry)
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func newQueue(capacity, workerCount int, do func(ctx context.Context, e Entry)) *queue {
	if capacity <= 0 {
		capacity = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	q := &queue{ch: make(chan Entry, capacity), do: do}
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *queue) enqueue(e Entry) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.ch <- e:
		return true
	default:
		// drop if saturated
		q.dropped.Add(1)
		return false
	}
}

func (q *queue) worker() {
	defer q.wg.Done()
	for e := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		q.do(ctx, e)
		cancel()
	}
}

// close stops intake and waits for queued entries to drain or ctx to end.
func (q *queue) close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
