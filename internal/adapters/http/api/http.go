// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rondolab/rondo/internal/adapters/eventstore"
	"github.com/rondolab/rondo/internal/adapters/exporter"
	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/render"
	"github.com/rondolab/rondo/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service behind it.
type Dependencies interface {
	// Tagging operations mutate the in-memory match log.
	TagEvent(ctx context.Context, e event.MatchEvent) (event.MatchEvent, error)
	Events(ctx context.Context) []event.MatchEvent
	DeleteEvent(ctx context.Context, id string) error
	ClearEvents(ctx context.Context) int
	CorrectTimestamp(ctx context.Context, id string, seconds float64) (event.MatchEvent, error)

	// Interchange moves whole matches in and out as CSV.
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	ExportCSV(ctx context.Context, w io.Writer) error

	// Rendering produces PNGs synchronously or through the export queue.
	Graphic(ctx context.Context, kind types.GraphicKind, opts render.Options, events []types.GraphicEvent) ([]byte, error)
	EnqueueExport(ctx context.Context, kind types.GraphicKind, opts render.Options) (exporter.Job, error)
	ExportJob(ctx context.Context, id string) (exporter.Job, error)

	// Aggregates expose the numbers behind the graphics.
	CountsByTeam(ctx context.Context) map[string]map[string]int
	Timeline(ctx context.Context, liveMinute int) []aggregate.TimelineSeries
	Leaders(ctx context.Context) []aggregate.Leader
}

// Server wires HTTP routes for the match-tagging API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	eventsHandler     *EventsHandler
	graphicsHandler   *GraphicsHandler
	exportsHandler    *ExportsHandler
	aggregatesHandler *AggregatesHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		eventsHandler:     NewEventsHandler(deps),
		graphicsHandler:   NewGraphicsHandler(deps),
		exportsHandler:    NewExportsHandler(deps),
		aggregatesHandler: NewAggregatesHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/api/v1/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/api/v1/events/import", MetricsMiddleware(s.eventsHandler.HandleImport, "events_import"))
	mux.HandleFunc("/api/v1/events/export.csv", MetricsMiddleware(s.eventsHandler.HandleExport, "events_export"))
	mux.HandleFunc("/api/v1/events/", MetricsMiddleware(s.eventsHandler.HandleEventByID, "events_by_id"))

	mux.HandleFunc("/api/v1/graphics/", MetricsMiddleware(s.graphicsHandler.HandleGraphic, "graphics"))

	mux.HandleFunc("/api/v1/exports", MetricsMiddleware(s.exportsHandler.HandleEnqueue, "exports"))
	mux.HandleFunc("/api/v1/exports/", MetricsMiddleware(s.exportsHandler.HandleExportByID, "exports_by_id"))

	mux.HandleFunc("/api/v1/aggregates/counts", MetricsMiddleware(BrotliMiddleware(s.aggregatesHandler.HandleCounts), "aggregates_counts"))
	mux.HandleFunc("/api/v1/aggregates/timeline", MetricsMiddleware(BrotliMiddleware(s.aggregatesHandler.HandleTimeline), "aggregates_timeline"))
	mux.HandleFunc("/api/v1/aggregates/leaders", MetricsMiddleware(BrotliMiddleware(s.aggregatesHandler.HandleLeaders), "aggregates_leaders"))
}

// tagRequest mirrors the OpenAPI schema for POST /api/v1/events.
type tagRequest struct {
	VideoSeconds float64             `json:"video_seconds"`
	PlayerID     string              `json:"player_id,omitempty"`
	PlayerName   string              `json:"player_name"`
	Team         types.TeamLabel     `json:"team"`
	Type         string              `json:"type"`
	Start        types.Position      `json:"start"`
	End          *types.Position     `json:"end,omitempty"`
	DrillArea    *geometry.DrillArea `json:"drill_area,omitempty"`
	DrillType    string              `json:"drill_type,omitempty"`
	PairID       string              `json:"pair_id,omitempty"`
	Minute       *int                `json:"minute,omitempty"`
}

func (t tagRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Type) == "":
		return errors.New("missing type")
	case strings.TrimSpace(t.PlayerName) == "":
		return errors.New("missing player_name")
	case t.Team.IsZero():
		return errors.New("missing team")
	}
	if t.VideoSeconds < 0 {
		return errors.New("invalid video_seconds; must be >= 0")
	}
	return nil
}

// toEvent converts the request to the stored shape. Positions tagged inside
// a drill sub-area arrive drill-local; they are remapped onto the canonical
// pitch here and the raw start is kept alongside for drill review.
func (t tagRequest) toEvent() event.MatchEvent {
	ev := event.MatchEvent{
		VideoSeconds: t.VideoSeconds,
		PlayerID:     t.PlayerID,
		PlayerName:   t.PlayerName,
		Team:         t.Team,
		Type:         t.Type,
		Start:        t.Start,
		End:          t.End,
		DrillType:    t.DrillType,
		PairID:       t.PairID,
		Minute:       t.Minute,
	}
	if t.DrillArea != nil {
		raw := t.Start
		ev.DrillStart = &raw
		ev.Start = geometry.ToCanonical(t.Start, t.DrillArea)
		if t.End != nil {
			end := geometry.ToCanonical(*t.End, t.DrillArea)
			ev.End = &end
		}
	}
	return ev
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Count  int    `json:"count,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates errors surfacing from the service into HTTP
// responses. Anything unrecognized counts as a rejected request.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, eventstore.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	case errors.Is(err, exporter.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	default:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	}
}

// isNotFound translates upstream not-found errors to 404 without coupling
// every handler to the packages behind the service.
func isNotFound(err error) bool {
	return errors.Is(err, eventstore.ErrNotFound) || errors.Is(err, exporter.ErrJobNotFound)
}

// maxUploadBytes bounds multipart CSV uploads held in memory.
const maxUploadBytes = 10 << 20

// csvBody returns the CSV payload of an upload request. Multipart forms
// carry it in the "file" field; otherwise the raw body is the document.
func csvBody(r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("read form file: %w", err)
		}
		return f, nil
	}
	return r.Body, nil
}
