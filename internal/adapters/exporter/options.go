package exporter

import (
	"time"

	"github.com/rondolab/rondo/pkg/logger"
)

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueSize bounds how many job ids can wait at once.
func WithQueueSize(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.size = n
		}
	}
}

// WithName names the queue for logs and debugging.
func WithName(name string) QueueOption {
	return func(q *Queue) {
		if name != "" {
			q.name = name
		}
	}
}

// JobsOption configures a Jobs store.
type JobsOption func(*Jobs)

// WithRetention sets how long finished jobs stay fetchable.
func WithRetention(d time.Duration) JobsOption {
	return func(j *Jobs) {
		if d > 0 {
			j.retention = d
		}
	}
}

// WithClock overrides the job store's time source.
func WithClock(clock func() time.Time) JobsOption {
	return func(j *Jobs) {
		if clock != nil {
			j.clock = clock
		}
	}
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
