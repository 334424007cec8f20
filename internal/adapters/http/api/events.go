// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/pkg/metrics"
)

// EventDependencies defines the interface for event tagging operations.
type EventDependencies interface {
	TagEvent(ctx context.Context, e event.MatchEvent) (event.MatchEvent, error)
	Events(ctx context.Context) []event.MatchEvent
	DeleteEvent(ctx context.Context, id string) error
	ClearEvents(ctx context.Context) int
	CorrectTimestamp(ctx context.Context, id string, seconds float64) (event.MatchEvent, error)
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// EventsHandler handles event tagging requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// listResponse wraps the stored events for GET /api/v1/events.
type listResponse struct {
	Events []event.MatchEvent `json:"events"`
	Count  int                `json:"count"`
}

// timestampRequest mirrors the OpenAPI schema for PATCH
// /api/v1/events/{id}/timestamp.
type timestampRequest struct {
	VideoSeconds float64 `json:"video_seconds"`
}

// HandleEvents handles POST (tag one), GET (list) and DELETE (bulk clear)
// requests on /api/v1/events.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.tagEvent(w, r)
	case http.MethodGet:
		h.listEvents(w, r)
	case http.MethodDelete:
		h.clearEvents(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleEventByID handles DELETE /api/v1/events/{id} and
// PATCH /api/v1/events/{id}/timestamp requests.
func (h *EventsHandler) HandleEventByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.event_by_id"
	// Extract path parameter after /api/v1/events/
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/events/")
	if strings.HasSuffix(path, "/timestamp") {
		if r.Method != http.MethodPatch {
			http.NotFound(w, r)
			return
		}
		h.correctTimestamp(w, r, strings.TrimSuffix(path, "/timestamp"))
		return
	}
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	h.deleteEvent(w, r, path)
}

// HandleImport handles POST /api/v1/events/import requests. The body is a
// CSV document, raw or as the "file" field of a multipart form.
func (h *EventsHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_events"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := csvBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = body.Close() }()

	n, err := h.deps.ImportCSV(r.Context(), body)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "imported", Count: n})
}

// HandleExport handles GET /api/v1/events/export.csv requests.
func (h *EventsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="match-events.csv"`)
	if err := h.deps.ExportCSV(r.Context(), w); err != nil {
		// Status is already on the wire; the truncated body has to carry it.
		metrics.RecordErrorByComponent("http", "export_write")
	}
}

func (h *EventsHandler) tagEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.tag_event"
	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := h.deps.TagEvent(r.Context(), req.toEvent())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (h *EventsHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	events := h.deps.Events(r.Context())
	writeJSON(w, http.StatusOK, listResponse{Events: events, Count: len(events)})
}

func (h *EventsHandler) clearEvents(w http.ResponseWriter, r *http.Request) {
	n := h.deps.ClearEvents(r.Context())
	writeJSON(w, http.StatusOK, ackResponse{Status: "cleared", Count: n})
}

func (h *EventsHandler) deleteEvent(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_event"
	if err := h.deps.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted", ID: id})
}

func (h *EventsHandler) correctTimestamp(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.correct_timestamp"
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req timestampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := h.deps.CorrectTimestamp(r.Context(), id, req.VideoSeconds)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
