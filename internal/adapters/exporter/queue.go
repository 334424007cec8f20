// Package exporter runs asynchronous graphic exports: a bounded queue of
// job ids, an in-memory job store, and a fixed pool of render workers.
//
// Workers never share drawing state. Each job gets its own surface and
// label registry, so any number of exports can be in flight at once.
package exporter

import (
	"context"
	"sync"

	"github.com/rondolab/rondo/pkg/metrics"
)

const defaultQueueSize = 1024

// Queue hands job ids from the API to the render workers. Enqueue never
// blocks; a full or closed queue rejects the job and the caller answers
// 503.
type Queue struct {
	ids  chan string
	size int
	name string

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a bounded id queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		size: defaultQueueSize,
		name: "exports",
	}

	for _, opt := range opts {
		opt(q)
	}

	q.ids = make(chan string, q.size)

	metrics.UpdateQueueCapacity(q.size)
	metrics.UpdateQueueDepth(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds a job id. Returns false when the queue is full or closed.
func (q *Queue) Enqueue(ctx context.Context, id string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejection()
		metrics.RecordErrorByComponent("exporter", "queue_closed")
		return false
	}

	select {
	case q.ids <- id:
		metrics.RecordQueueEnqueue()
		q.publishDepth()
		return true
	case <-ctx.Done():
		metrics.RecordQueueRejection()
		metrics.RecordErrorByComponent("exporter", "context_cancelled")
		return false
	default:
		metrics.RecordQueueRejection()
		metrics.RecordErrorByComponent("exporter", "queue_full")
		return false
	}
}

// Dequeue returns a channel of job ids. The channel closes once the
// queue is closed and drained, or when ctx is cancelled.
func (q *Queue) Dequeue(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for id := range q.ids {
			select {
			case out <- id:
				metrics.RecordQueueDequeue()
				q.publishDepth()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued job ids.
func (q *Queue) Len(_ context.Context) int {
	n := len(q.ids)
	metrics.UpdateQueueDepth(n)
	return n
}

// Close stops accepting ids. Workers drain whatever is left.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.ids)
	q.closed = true

	return nil
}

// IsClosed reports whether Close has been called.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Name returns the queue's configured name.
func (q *Queue) Name() string { return q.name }

// Size returns the queue's configured capacity.
func (q *Queue) Size() int { return q.size }

func (q *Queue) publishDepth() {
	depth := len(q.ids)
	metrics.UpdateQueueDepth(depth)
	metrics.UpdateQueueUtilization(float64(depth) / float64(q.size))
}
