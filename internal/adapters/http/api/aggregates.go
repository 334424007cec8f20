// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rondolab/rondo/internal/domain/aggregate"
)

// AggregateDependencies defines the interface for aggregate queries.
type AggregateDependencies interface {
	CountsByTeam(ctx context.Context) map[string]map[string]int
	Timeline(ctx context.Context, liveMinute int) []aggregate.TimelineSeries
	Leaders(ctx context.Context) []aggregate.Leader
}

// AggregatesHandler handles aggregate query requests.
type AggregatesHandler struct {
	deps AggregateDependencies
}

// NewAggregatesHandler creates a new aggregates handler.
func NewAggregatesHandler(deps AggregateDependencies) *AggregatesHandler {
	return &AggregatesHandler{deps: deps}
}

// HandleCounts handles GET /api/v1/aggregates/counts requests.
func (h *AggregatesHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CountsByTeam(r.Context()))
}

// HandleTimeline handles GET /api/v1/aggregates/timeline?minute=N requests.
// The optional minute pins a live cutoff; without it the series run to the
// last shot.
func (h *AggregatesHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.timeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var minute int
	if v := r.URL.Query().Get("minute"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, errors.New("invalid minute; must be a non-negative integer")))
			return
		}
		minute = n
	}
	writeJSON(w, http.StatusOK, h.deps.Timeline(r.Context(), minute))
}

// HandleLeaders handles GET /api/v1/aggregates/leaders requests.
func (h *AggregatesHandler) HandleLeaders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Leaders(r.Context()))
}
