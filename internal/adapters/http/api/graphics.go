// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rondolab/rondo/internal/adapters/eventcsv"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/render"
)

// maxDPR caps requested device pixel ratios; anything above renders
// needlessly large PNGs.
const maxDPR = 4.0

// GraphicDependencies defines the interface for synchronous rendering.
type GraphicDependencies interface {
	Graphic(ctx context.Context, kind types.GraphicKind, opts render.Options, events []types.GraphicEvent) ([]byte, error)
}

// GraphicsHandler handles synchronous PNG rendering requests.
type GraphicsHandler struct {
	deps GraphicDependencies
}

// NewGraphicsHandler creates a new graphics handler.
func NewGraphicsHandler(deps GraphicDependencies) *GraphicsHandler {
	return &GraphicsHandler{deps: deps}
}

// HandleGraphic handles GET and POST /api/v1/graphics/{kind}.png requests.
// GET renders the stored match; POST renders an uploaded CSV without
// storing it.
func (h *GraphicsHandler) HandleGraphic(w http.ResponseWriter, r *http.Request) {
	const op = "api.graphic"
	// Extract path parameter after /api/v1/graphics/
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/graphics/")
	name := strings.TrimSuffix(path, ".png")
	if name == path || name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	kind, err := types.ParseGraphicKind(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// nil events renders whatever the store holds
	var events []types.GraphicEvent
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		body, err := csvBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		defer func() { _ = body.Close() }()
		rows, err := eventcsv.Read(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		events = rows
	default:
		http.NotFound(w, r)
		return
	}

	png, err := h.deps.Graphic(r.Context(), kind, opts, events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// optionsFromQuery builds render options from the query string. Unknown
// keys are ignored; malformed values are rejected rather than defaulted.
func optionsFromQuery(r *http.Request) (render.Options, error) {
	q := r.URL.Query()

	var minute int
	if v := q.Get("minute"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return render.Options{}, errors.New("invalid minute; must be a non-negative integer")
		}
		minute = n
	}
	var dpr float64
	if v := q.Get("dpr"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return render.Options{}, errors.New("invalid dpr; must be a number")
		}
		dpr = f
	}

	return buildOptions(q.Get("team"), q.Get("name"), q.Get("subtitle"), q.Get("color"), q.Get("sizeby"), minute, dpr)
}

// buildOptions assembles render options shared by the query-string and JSON
// request shapes.
func buildOptions(team, name, subtitle, color, sizeBy string, minute int, dpr float64) (render.Options, error) {
	opts := render.Options{
		Team:       types.NewTeamLabel(team),
		TeamName:   name,
		Subtitle:   subtitle,
		PrimaryHex: color,
		LiveMinute: minute,
		DPR:        dpr,
	}
	switch sizeBy {
	case "":
	case string(render.SizeByXG):
		opts.SizeBy = render.SizeByXG
	case string(render.SizeByDistance):
		opts.SizeBy = render.SizeByDistance
	default:
		return render.Options{}, errors.New("invalid sizeby; must be xg or distance")
	}
	if minute < 0 {
		return render.Options{}, errors.New("invalid minute; must be a non-negative integer")
	}
	if dpr < 0 || dpr > maxDPR {
		return render.Options{}, errors.New("invalid dpr; must be between 0 and 4")
	}
	return opts, nil
}
