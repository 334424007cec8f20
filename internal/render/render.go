// Package render draws match graphics onto gg contexts: pass maps, shot
// maps, heatmaps, xG timelines and the composite match report. Renderers
// mutate the context they are handed and leave encoding to the caller, so
// the same drawing code serves PNG export jobs and ad-hoc previews.
package render

import (
	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/types"
)

// Logical surface dimensions per graphic kind. Device pixel ratio scales
// these at surface creation, never inside a renderer.
const (
	passMapWidth   = 2200
	passMapHeight  = 1600
	shotMapWidth   = 1600
	shotMapHeight  = 2200
	heatmapWidth   = 2200
	heatmapHeight  = 1600
	timelineWidth  = 2200
	timelineHeight = 1400
	reportWidth    = 2200
	reportHeight   = 1600
)

// SizeMode selects how shot markers scale.
type SizeMode string

// Marker sizing modes.
const (
	SizeByXG       SizeMode = "xg"
	SizeByDistance SizeMode = "distance"
)

// Options carries per-render presentation settings. The zero value renders
// with the default palette at DPR 1. Team narrows single-team graphics to
// one side's events; timelines and reports ignore it.
type Options struct {
	Team       types.TeamLabel
	TeamName   string
	Subtitle   string
	PrimaryHex string
	SizeBy     SizeMode
	DPR        float64
	LiveMinute int
}

func (o Options) dpr() float64 {
	if o.DPR > 0 {
		return o.DPR
	}
	return 1
}

// Dimensions returns the logical width and height of a graphic kind.
func Dimensions(kind types.GraphicKind) (int, int) {
	switch kind {
	case types.GraphicShotMap:
		return shotMapWidth, shotMapHeight
	case types.GraphicTimeline:
		return timelineWidth, timelineHeight
	case types.GraphicHeatmap:
		return heatmapWidth, heatmapHeight
	case types.GraphicReport:
		return reportWidth, reportHeight
	default:
		return passMapWidth, passMapHeight
	}
}

// NewSurface creates a drawing context for a graphic kind at the given
// device pixel ratio. The context is pre-scaled so renderers always work
// in logical units.
func NewSurface(kind types.GraphicKind, dpr float64) *gg.Context {
	if dpr <= 0 {
		dpr = 1
	}
	w, h := Dimensions(kind)
	dc := gg.NewContext(int(float64(w)*dpr), int(float64(h)*dpr))
	dc.Scale(dpr, dpr)
	return dc
}
