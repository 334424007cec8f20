// Package service wires the match-tagging core to its adapters: the
// event store, the CSV codec, the render pipeline and the async export
// pool. It implements the dependency bundle the HTTP API consumes.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/rondolab/rondo/internal/adapters/eventcsv"
	"github.com/rondolab/rondo/internal/adapters/eventstore"
	"github.com/rondolab/rondo/internal/adapters/exporter"
	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/domain/xg"
	"github.com/rondolab/rondo/internal/render"
	"github.com/rondolab/rondo/pkg/logger"
	"github.com/rondolab/rondo/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize    = 1024
	defaultDPR          = 1.0
	defaultHalfLength   = 45
	defaultSigma        = 24.0
	defaultGridW        = 480
	defaultGridH        = 320
	defaultLeaderTypes  = 3
	stopShutdownTimeout = 30 * time.Second
)

// Service owns the stores and the export pipeline and exposes the
// operations the HTTP handlers need.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *eventstore.MemStore
	queue *exporter.Queue
	jobs  *exporter.Jobs
	pool  *exporter.Pool
	model *xg.Model

	// Configuration
	workerCount int
	queueSize   int
	retention   time.Duration
	defaultDPR  float64
	primaryHex  string
	halfLength  int
	sigma       float64
	gridW       int
	gridH       int
	xgParams    xg.Params

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of render workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the export queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRetention sets how long finished export jobs stay fetchable.
func WithRetention(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithDefaultDPR sets the device pixel ratio used when a request does
// not name one.
func WithDefaultDPR(dpr float64) Option {
	return func(s *Service) {
		if dpr > 0 {
			s.defaultDPR = dpr
		}
	}
}

// WithPrimaryHex sets the default theme color.
func WithPrimaryHex(hex string) Option {
	return func(s *Service) {
		if hex != "" {
			s.primaryHex = hex
		}
	}
}

// WithHalfLength sets the nominal half length in minutes for timeline
// extension.
func WithHalfLength(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.halfLength = minutes
		}
	}
}

// WithDensity overrides the heatmap kernel width and grid resolution.
func WithDensity(sigma float64, gridW, gridH int) Option {
	return func(s *Service) {
		if sigma > 0 {
			s.sigma = sigma
		}
		if gridW > 0 && gridH > 0 {
			s.gridW = gridW
			s.gridH = gridH
		}
	}
}

// WithXGParams overrides the fitted xG model parameters.
func WithXGParams(p xg.Params) Option {
	return func(s *Service) {
		s.xgParams = p
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		defaultDPR:  defaultDPR,
		halfLength:  defaultHalfLength,
		sigma:       defaultSigma,
		gridW:       defaultGridW,
		gridH:       defaultGridH,
		xgParams:    xg.DefaultParams(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the store, the xG model and the export pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.store = eventstore.NewMemStore()
	s.model = xg.New(xg.WithParams(s.xgParams))
	s.queue = exporter.NewQueue(
		exporter.WithQueueSize(s.queueSize),
		exporter.WithName("exports"),
	)

	jobsOpts := []exporter.JobsOption{}
	if s.retention > 0 {
		jobsOpts = append(jobsOpts, exporter.WithRetention(s.retention))
	}
	s.jobs = exporter.NewJobs(jobsOpts...)

	s.pool = exporter.NewPool(s.workerCount, s.queue, s.jobs, s.renderJob)
	s.pool.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "match graphics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// Stop drains the export pipeline and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopShutdownTimeout)
	defer cancel()

	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "export pool shutdown", logger.Error(err))
		}
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "match graphics service stopped")
}

// TagEvent validates and stores one tagged event, returning it with its
// assigned id.
func (s *Service) TagEvent(ctx context.Context, e event.MatchEvent) (event.MatchEvent, error) {
	id, err := s.store.Add(ctx, e)
	if err != nil {
		return event.MatchEvent{}, err
	}
	return s.store.Get(ctx, id)
}

// Events lists stored events in video-timestamp order.
func (s *Service) Events(ctx context.Context) []event.MatchEvent {
	return s.store.List(ctx)
}

// DeleteEvent removes one event.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ClearEvents removes every event and returns how many were dropped.
func (s *Service) ClearEvents(ctx context.Context) int {
	return s.store.DeleteAll(ctx)
}

// CorrectTimestamp moves one event to a new video timestamp.
func (s *Service) CorrectTimestamp(ctx context.Context, id string, seconds float64) (event.MatchEvent, error) {
	return s.store.CorrectTimestamp(ctx, id, seconds)
}

// ImportCSV bulk-adds events decoded from an interchange CSV and
// returns how many landed.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	graphics, err := eventcsv.Read(r)
	if err != nil {
		return 0, err
	}

	events := make([]event.MatchEvent, len(graphics))
	for i, g := range graphics {
		events[i] = fromGraphic(g)
	}

	ids, err := s.store.BulkAdd(ctx, events)
	if err != nil {
		return 0, err
	}

	return len(ids), nil
}

// ExportCSV writes the stored events as an interchange CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	return eventcsv.Write(w, event.ProjectAll(s.store.List(ctx)))
}

// Graphic renders one graphic synchronously and returns the PNG bytes.
// A nil events slice renders the stored match; callers pass decoded CSV
// rows to render an uploaded file without storing it.
func (s *Service) Graphic(ctx context.Context, kind types.GraphicKind, opts render.Options, events []types.GraphicEvent) ([]byte, error) {
	if events == nil {
		events = event.ProjectAll(s.store.List(ctx))
	}

	start := time.Now()
	png, err := s.renderPNG(ctx, kind, opts, events)
	if err != nil {
		metrics.RecordRenderError(kind.String())
		return nil, err
	}

	metrics.RecordRender(kind.String(), float64(time.Since(start).Milliseconds()))
	return png, nil
}

// EnqueueExport snapshots the stored events and queues an async render.
func (s *Service) EnqueueExport(ctx context.Context, kind types.GraphicKind, opts render.Options) (exporter.Job, error) {
	snapshot := event.ProjectAll(s.store.List(ctx))

	job := s.jobs.Create(kind, snapshot, opts)
	if !s.queue.Enqueue(ctx, job.ID) {
		s.jobs.Reject(job.ID, "export queue full")
		return exporter.Job{}, fmt.Errorf("enqueue export: %w", exporter.ErrQueueFull)
	}

	return job, nil
}

// ExportJob returns the job with the given id.
func (s *Service) ExportJob(_ context.Context, id string) (exporter.Job, error) {
	return s.jobs.Get(id)
}

// CountsByTeam returns per-type event counts keyed by team label.
func (s *Service) CountsByTeam(ctx context.Context) map[string]map[string]int {
	prepared := s.prepared(ctx)

	counts := make(map[string]map[string]int)
	for _, team := range aggregate.Teams(prepared) {
		counts[team.String()] = aggregate.CountByType(prepared, team)
	}

	return counts
}

// Timeline returns the cumulative xG series for every team.
func (s *Service) Timeline(ctx context.Context, liveMinute int) []aggregate.TimelineSeries {
	return aggregate.CumulativeXG(s.prepared(ctx),
		aggregate.WithHalfLength(s.halfLength),
		aggregate.WithLiveMinute(liveMinute),
	)
}

// Leaders returns the most active players with per-type breakdowns.
func (s *Service) Leaders(ctx context.Context) []aggregate.Leader {
	return aggregate.TopPerformers(s.prepared(ctx), defaultLeaderTypes)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		ctx := context.Background()
		stats["events"] = s.store.Len(ctx)
		stats["queueName"] = s.queue.Name()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["exportJobs"] = s.jobs.Len()
	}

	return stats
}

// prepared projects, mirrors and xG-enriches the stored events.
func (s *Service) prepared(ctx context.Context) []types.GraphicEvent {
	return aggregate.Prepare(event.ProjectAll(s.store.List(ctx)), s.model)
}

// renderJob is the worker-side render entry point.
func (s *Service) renderJob(ctx context.Context, job exporter.Job) ([]byte, error) {
	return s.renderPNG(ctx, job.Kind, job.Opts, job.Events)
}

// renderPNG runs the full pipeline for one graphic: mirror + enrich,
// aggregate what the kind needs, draw on a fresh surface, encode.
func (s *Service) renderPNG(_ context.Context, kind types.GraphicKind, opts render.Options, events []types.GraphicEvent) ([]byte, error) {
	if opts.DPR <= 0 {
		opts.DPR = s.defaultDPR
	}
	if opts.PrimaryHex == "" {
		opts.PrimaryHex = s.primaryHex
	}
	if !opts.Team.IsZero() {
		kept := make([]types.GraphicEvent, 0, len(events))
		for _, ev := range events {
			if ev.Team.Matches(opts.Team) {
				kept = append(kept, ev)
			}
		}
		events = kept
	}

	prepared := aggregate.Prepare(events, s.model)
	dc := render.NewSurface(kind, opts.DPR)

	var err error
	switch kind {
	case types.GraphicPassMap:
		err = render.RenderPassMap(dc, prepared, opts)
	case types.GraphicShotMap:
		err = render.RenderShotMap(dc, prepared, opts)
	case types.GraphicHeatmap:
		buildStart := time.Now()
		grid := aggregate.BuildDensityGrid(prepared,
			aggregate.WithSigma(s.sigma),
			aggregate.WithGridSize(s.gridW, s.gridH),
		)
		metrics.RecordDensityBuild(float64(time.Since(buildStart).Milliseconds()))
		err = render.RenderHeatmap(dc, prepared, grid, opts)
	case types.GraphicTimeline:
		series := aggregate.CumulativeXG(prepared,
			aggregate.WithHalfLength(s.halfLength),
			aggregate.WithLiveMinute(opts.LiveMinute),
		)
		err = render.RenderTimeline(dc, series, opts)
	case types.GraphicReport:
		err = render.RenderReport(dc, prepared, opts)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownGraphicKind, kind)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

// fromGraphic lifts an imported CSV row into a storable event. The
// minute column is the only clock a spreadsheet carries, so it doubles
// as the video timestamp.
func fromGraphic(g types.GraphicEvent) event.MatchEvent {
	e := event.MatchEvent{
		Type:         g.Type,
		PlayerName:   g.PlayerName,
		Team:         g.Team,
		VideoSeconds: float64(g.Minute) * 60,
		Start:        types.Position{X: g.StartX, Y: g.StartY},
		PairID:       g.PairID,
	}
	if g.HasEnd() {
		e.End = &types.Position{X: g.EndX, Y: g.EndY}
	}
	if g.Minute > 0 {
		minute := g.Minute
		e.Minute = &minute
	}
	return e
}
