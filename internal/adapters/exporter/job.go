package exporter

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/render"
	"github.com/rondolab/rondo/pkg/metrics"
)

// Status tracks a job through its lifecycle.
type Status string

// Job lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRendering Status = "rendering"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

const defaultRetention = 15 * time.Minute

// Job is one queued export. Events are snapshotted at enqueue time so a
// render is unaffected by tagging that happens while it waits.
type Job struct {
	ID         string            `json:"id"`
	Kind       types.GraphicKind `json:"kind"`
	Status     Status            `json:"status"`
	EventCount int               `json:"event_count"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	FinishedAt time.Time         `json:"finished_at,omitzero"`

	Opts   render.Options       `json:"-"`
	Events []types.GraphicEvent `json:"-"`
	PNG    []byte               `json:"-"`
}

// Jobs stores export jobs by id. Finished jobs are swept after the
// retention window so a long-running service does not hoard PNGs.
type Jobs struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	retention time.Duration
	clock     func() time.Time
}

// NewJobs creates an empty job store.
func NewJobs(opts ...JobsOption) *Jobs {
	j := &Jobs{
		jobs:      make(map[string]*Job),
		retention: defaultRetention,
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Create registers a pending job and returns a snapshot of it.
func (j *Jobs) Create(kind types.GraphicKind, events []types.GraphicEvent, opts render.Options) Job {
	job := &Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		Status:     StatusPending,
		EventCount: len(events),
		CreatedAt:  j.clock(),
		Opts:       opts,
		Events:     events,
	}

	j.mu.Lock()
	j.jobs[job.ID] = job
	j.mu.Unlock()

	metrics.RecordExportJob(string(StatusPending))

	return *job
}

// Get returns a snapshot of the job with the given id.
func (j *Jobs) Get(id string) (Job, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	job, ok := j.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}

	return *job, nil
}

// Len returns the number of stored jobs.
func (j *Jobs) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.jobs)
}

// Sweep drops finished jobs older than the retention window and returns
// how many were removed.
func (j *Jobs) Sweep() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := j.clock().Add(-j.retention)
	removed := 0
	for id, job := range j.jobs {
		if job.Status != StatusDone && job.Status != StatusFailed {
			continue
		}
		if job.FinishedAt.Before(cutoff) {
			delete(j.jobs, id)
			removed++
		}
	}

	return removed
}

// Reject marks a job failed before it ever reaches a worker, used when
// the queue refuses it.
func (j *Jobs) Reject(id, msg string) {
	j.fail(id, msg)
}

// markRendering flips a pending job to rendering and returns a snapshot
// for the worker. The snapshot carries the event slice the worker needs.
func (j *Jobs) markRendering(id string) (Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	job, ok := j.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}

	job.Status = StatusRendering
	metrics.RecordExportJob(string(StatusRendering))

	return *job, nil
}

// complete stores the finished PNG and flips the job to done.
func (j *Jobs) complete(id string, png []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()

	job, ok := j.jobs[id]
	if !ok {
		return
	}

	job.Status = StatusDone
	job.PNG = png
	job.Events = nil
	job.FinishedAt = j.clock()

	metrics.RecordExportJob(string(StatusDone))
}

// fail records the error and flips the job to failed.
func (j *Jobs) fail(id string, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	job, ok := j.jobs[id]
	if !ok {
		return
	}

	job.Status = StatusFailed
	job.Error = msg
	job.Events = nil
	job.FinishedAt = j.clock()

	metrics.RecordExportJob(string(StatusFailed))
}
