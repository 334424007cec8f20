// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rondolab/rondo/internal/adapters/exporter"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/render"
)

// ExportDependencies defines the interface for async export operations.
type ExportDependencies interface {
	EnqueueExport(ctx context.Context, kind types.GraphicKind, opts render.Options) (exporter.Job, error)
	ExportJob(ctx context.Context, id string) (exporter.Job, error)
}

// ExportsHandler handles async export requests.
type ExportsHandler struct {
	deps ExportDependencies
}

// NewExportsHandler creates a new exports handler.
func NewExportsHandler(deps ExportDependencies) *ExportsHandler {
	return &ExportsHandler{deps: deps}
}

// exportRequest mirrors the OpenAPI schema for POST /api/v1/exports.
type exportRequest struct {
	Kind     string  `json:"kind"`
	Team     string  `json:"team,omitempty"`
	Name     string  `json:"name,omitempty"`
	Subtitle string  `json:"subtitle,omitempty"`
	Color    string  `json:"color,omitempty"`
	SizeBy   string  `json:"sizeby,omitempty"`
	Minute   int     `json:"minute,omitempty"`
	DPR      float64 `json:"dpr,omitempty"`
}

func (e exportRequest) toOptions() (render.Options, error) {
	return buildOptions(e.Team, e.Name, e.Subtitle, e.Color, e.SizeBy, e.Minute, e.DPR)
}

// HandleEnqueue handles POST /api/v1/exports requests. The render happens
// on the worker pool; the response carries the job to poll.
func (h *ExportsHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	const op = "api.enqueue_export"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	kind, err := types.ParseGraphicKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	opts, err := req.toOptions()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	job, err := h.deps.EnqueueExport(r.Context(), kind, opts)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

// HandleExportByID handles GET /api/v1/exports/{id} requests. The default
// response is the job status JSON; ?download=1 streams the PNG once the
// job is done and 409s while it is not.
func (h *ExportsHandler) HandleExportByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_by_id"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /api/v1/exports/
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/exports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	job, err := h.deps.ExportJob(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	if r.URL.Query().Get("download") == "" {
		writeJSON(w, http.StatusOK, job)
		return
	}
	if job.Status != exporter.StatusDone {
		writeError(w, http.StatusConflict, "not_ready", NewKind(op, ErrNotReady))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(job.PNG)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+job.Kind.String()+`.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(job.PNG)
}
