package exporter

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rondolab/rondo/pkg/logger"
	"github.com/rondolab/rondo/pkg/metrics"
)

const housekeepingInterval = 5 * time.Second

// RenderFunc produces the finished PNG for a job. The app layer supplies
// it so the pool stays ignorant of pitches and xG models.
type RenderFunc func(ctx context.Context, job Job) ([]byte, error)

// Pool drains the queue with a fixed set of render workers.
type Pool struct {
	queue   *Queue
	jobs    *Jobs
	render  RenderFunc
	workers int

	shutdown chan struct{}
	wg       sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a pool of render workers. Counts below one fall back
// to one worker per CPU, since rendering is CPU-bound.
func NewPool(workers int, queue *Queue, jobs *Jobs, render RenderFunc, opts ...PoolOption) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		queue:    queue,
		jobs:     jobs,
		render:   render,
		workers:  workers,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("exporter"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run starts the workers and the housekeeping loop, then returns.
func (p *Pool) Run(ctx context.Context) {
	metrics.UpdateWorkerActiveCount(p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, strconv.Itoa(i))
	}

	go p.housekeeping(ctx)
}

// worker processes job ids until the queue drains after Close or the
// context ends.
func (p *Pool) worker(ctx context.Context, name string) {
	defer p.wg.Done()

	ids := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-ids:
			if !ok {
				return
			}
			p.process(ctx, name, id)
		}
	}
}

// process renders one job. A panic inside a renderer fails that job
// only; the worker keeps going.
func (p *Pool) process(ctx context.Context, worker, id string) {
	job, err := p.jobs.markRendering(id)
	if err != nil {
		metrics.RecordErrorByComponent("exporter", "job_missing")
		p.logger.Warn(ctx, "queued job no longer exists", logger.String("job_id", id))
		return
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordRenderError(job.Kind.String())
			metrics.RecordErrorByComponent("exporter", "render_panic")
			p.jobs.fail(id, fmt.Sprintf("render panicked: %v", r))
			p.logger.Error(ctx, "render panicked",
				logger.String("worker", worker),
				logger.String("job_id", id),
				logger.Any("panic", r),
			)
		}
	}()

	png, err := p.render(ctx, job)
	if err != nil {
		metrics.RecordRenderError(job.Kind.String())
		p.jobs.fail(id, err.Error())
		p.logger.Error(ctx, "render failed",
			logger.String("worker", worker),
			logger.String("job_id", id),
			logger.String("kind", job.Kind.String()),
			logger.Error(err),
		)
		return
	}

	p.jobs.complete(id, png)

	elapsed := time.Since(start)
	metrics.RecordRender(job.Kind.String(), float64(elapsed.Milliseconds()))
	p.logger.Debug(ctx, "job rendered",
		logger.String("worker", worker),
		logger.String("job_id", id),
		logger.String("kind", job.Kind.String()),
		logger.Duration("elapsed", elapsed),
	)
}

// housekeeping keeps the queue depth gauge fresh and sweeps expired jobs.
func (p *Pool) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.queue.Len(ctx)
			if swept := p.jobs.Sweep(); swept > 0 {
				p.logger.Debug(ctx, "swept expired jobs", logger.Int("count", swept))
			}
		}
	}
}

// Shutdown closes the queue, lets the workers drain it, and waits for
// them up to the context deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "closing queue", logger.Error(err))
	}
	close(p.shutdown)

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		metrics.UpdateWorkerActiveCount(0)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("exporter shutdown timed out: %w", ctx.Err())
	}
}
