package exporter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rondolab/rondo/internal/adapters/exporter"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/render"
	"github.com/rondolab/rondo/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// waitForStatus polls the job store until the job reaches the wanted
// status or the timeout passes.
func waitForStatus(jobs *exporter.Jobs, id string, want exporter.Status, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if job, err := jobs.Get(id); err == nil && job.Status == want {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestPoolRendersJobs(t *testing.T) {
	convey.Convey("Given a running pool with a stub renderer", t, func() {
		_ = logger.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue := exporter.NewQueue(exporter.WithQueueSize(16))
		jobs := exporter.NewJobs()

		renderFn := func(_ context.Context, job exporter.Job) ([]byte, error) {
			return []byte("png:" + job.Kind.String()), nil
		}

		pool := exporter.NewPool(2, queue, jobs, renderFn)
		pool.Run(ctx)

		convey.Convey("When jobs are enqueued", func() {
			a := jobs.Create(types.GraphicPassMap, nil, render.Options{})
			b := jobs.Create(types.GraphicShotMap, nil, render.Options{})

			convey.So(queue.Enqueue(ctx, a.ID), convey.ShouldBeTrue)
			convey.So(queue.Enqueue(ctx, b.ID), convey.ShouldBeTrue)

			convey.Convey("Then both finish with their PNGs stored", func() {
				convey.So(waitForStatus(jobs, a.ID, exporter.StatusDone, 2*time.Second), convey.ShouldBeTrue)
				convey.So(waitForStatus(jobs, b.ID, exporter.StatusDone, 2*time.Second), convey.ShouldBeTrue)

				got, err := jobs.Get(a.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(got.PNG), convey.ShouldEqual, "png:passmap")
				convey.So(got.FinishedAt.IsZero(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestPoolFailureHandling(t *testing.T) {
	convey.Convey("Given a running pool", t, func() {
		_ = logger.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue := exporter.NewQueue(exporter.WithQueueSize(16))
		jobs := exporter.NewJobs()

		renderFn := func(_ context.Context, job exporter.Job) ([]byte, error) {
			switch job.Kind {
			case types.GraphicHeatmap:
				return nil, errors.New("font unavailable")
			case types.GraphicReport:
				panic("nil surface")
			default:
				return []byte("ok"), nil
			}
		}

		pool := exporter.NewPool(1, queue, jobs, renderFn)
		pool.Run(ctx)

		convey.Convey("When a render returns an error", func() {
			job := jobs.Create(types.GraphicHeatmap, nil, render.Options{})
			convey.So(queue.Enqueue(ctx, job.ID), convey.ShouldBeTrue)

			convey.Convey("Then the job fails with the message", func() {
				convey.So(waitForStatus(jobs, job.ID, exporter.StatusFailed, 2*time.Second), convey.ShouldBeTrue)

				got, err := jobs.Get(job.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Error, convey.ShouldEqual, "font unavailable")
			})
		})

		convey.Convey("When a render panics", func() {
			bad := jobs.Create(types.GraphicReport, nil, render.Options{})
			good := jobs.Create(types.GraphicPassMap, nil, render.Options{})

			convey.So(queue.Enqueue(ctx, bad.ID), convey.ShouldBeTrue)
			convey.So(queue.Enqueue(ctx, good.ID), convey.ShouldBeTrue)

			convey.Convey("Then only that job fails and the worker survives", func() {
				convey.So(waitForStatus(jobs, bad.ID, exporter.StatusFailed, 2*time.Second), convey.ShouldBeTrue)
				convey.So(waitForStatus(jobs, good.ID, exporter.StatusDone, 2*time.Second), convey.ShouldBeTrue)

				got, err := jobs.Get(bad.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Error, convey.ShouldContainSubstring, "panicked")
			})
		})
	})
}

func TestPoolConcurrentRenders(t *testing.T) {
	convey.Convey("Given a pool with two workers and a rendezvous renderer", t, func() {
		_ = logger.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue := exporter.NewQueue(exporter.WithQueueSize(4))
		jobs := exporter.NewJobs()

		entered := make(chan string, 2)
		release := make(chan struct{})

		renderFn := func(_ context.Context, job exporter.Job) ([]byte, error) {
			entered <- job.ID
			<-release
			return []byte("png"), nil
		}

		pool := exporter.NewPool(2, queue, jobs, renderFn)
		pool.Run(ctx)

		convey.Convey("When two exports are queued", func() {
			a := jobs.Create(types.GraphicPassMap, nil, render.Options{})
			b := jobs.Create(types.GraphicTimeline, nil, render.Options{})
			convey.So(queue.Enqueue(ctx, a.ID), convey.ShouldBeTrue)
			convey.So(queue.Enqueue(ctx, b.ID), convey.ShouldBeTrue)

			convey.Convey("Then both are in flight at the same time", func() {
				seen := map[string]bool{}
				timedOut := false
				for i := 0; i < 2; i++ {
					select {
					case id := <-entered:
						seen[id] = true
					case <-time.After(2 * time.Second):
						timedOut = true
					}
				}
				convey.So(timedOut, convey.ShouldBeFalse)
				convey.So(seen[a.ID], convey.ShouldBeTrue)
				convey.So(seen[b.ID], convey.ShouldBeTrue)

				close(release)
				convey.So(waitForStatus(jobs, a.ID, exporter.StatusDone, 2*time.Second), convey.ShouldBeTrue)
				convey.So(waitForStatus(jobs, b.ID, exporter.StatusDone, 2*time.Second), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPoolShutdown(t *testing.T) {
	convey.Convey("Given a pool with queued work", t, func() {
		_ = logger.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue := exporter.NewQueue(exporter.WithQueueSize(16))
		jobs := exporter.NewJobs()

		renderFn := func(_ context.Context, _ exporter.Job) ([]byte, error) {
			time.Sleep(10 * time.Millisecond)
			return []byte("png"), nil
		}

		pool := exporter.NewPool(2, queue, jobs, renderFn)
		pool.Run(ctx)

		ids := make([]string, 0, 6)
		for i := 0; i < 6; i++ {
			job := jobs.Create(types.GraphicPassMap, nil, render.Options{})
			convey.So(queue.Enqueue(ctx, job.ID), convey.ShouldBeTrue)
			ids = append(ids, job.ID)
		}

		convey.Convey("When the pool shuts down", func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()

			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then the queue drains before the pool stops", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(queue.IsClosed(), convey.ShouldBeTrue)
				for _, id := range ids {
					job, err := jobs.Get(id)
					convey.So(err, convey.ShouldBeNil)
					convey.So(job.Status, convey.ShouldEqual, exporter.StatusDone)
				}
			})
		})

		convey.Convey("When the shutdown deadline is too tight", func() {
			blocked := exporter.NewQueue(exporter.WithQueueSize(4))
			blockedJobs := exporter.NewJobs()
			release := make(chan struct{})

			slowPool := exporter.NewPool(1, blocked, blockedJobs, func(_ context.Context, _ exporter.Job) ([]byte, error) {
				<-release
				return []byte("png"), nil
			})
			slowPool.Run(ctx)

			job := blockedJobs.Create(types.GraphicReport, nil, render.Options{})
			convey.So(blocked.Enqueue(ctx, job.ID), convey.ShouldBeTrue)
			convey.So(waitForStatus(blockedJobs, job.ID, exporter.StatusRendering, 2*time.Second), convey.ShouldBeTrue)

			shutdownCtx, done := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer done()

			err := slowPool.Shutdown(shutdownCtx)

			convey.Convey("Then shutdown reports the timeout", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
				close(release)
			})
		})
	})
}
