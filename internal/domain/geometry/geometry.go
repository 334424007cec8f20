// Package geometry converts between the coordinate spaces of the tagging
// pipeline: pointer-normalized percentages, canonical full-pitch
// percentages, and real-world pitch metres.
package geometry

import (
	"math"

	"github.com/rondolab/rondo/internal/domain/types"
)

// Percentage bounds of every normalized coordinate space.
const (
	PctMin = 0.0
	PctMax = 100.0
)

// Clamp bounds v to [lo, hi]. NaN collapses to lo so that a single bad
// coordinate can never poison a render.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPct bounds a percentage coordinate to [0,100].
func ClampPct(v float64) float64 { return Clamp(v, PctMin, PctMax) }

// ClampPos bounds both axes of a position to [0,100].
func ClampPos(p types.Position) types.Position {
	return types.Position{X: ClampPct(p.X), Y: ClampPct(p.Y)}
}

// DrillArea is the canonical-space bounding box of a zoomed drill
// sub-rectangle. Origin and size are full-pitch percentages.
type DrillArea struct {
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Valid reports whether the area can be used for remapping. Degenerate
// areas are treated as absent by the transforms.
func (a *DrillArea) Valid() bool {
	return a != nil && a.Width > 0 && a.Height > 0
}

// ToCanonical remaps a pointer-space position into canonical full-pitch
// percentages. With an active drill area the pointer percentages are
// interpreted relative to the area's bounding box; without one they are
// already canonical.
func ToCanonical(p types.Position, area *DrillArea) types.Position {
	p = ClampPos(p)
	if !area.Valid() {
		return p
	}
	return types.Position{
		X: ClampPct(area.OriginX + p.X/PctMax*area.Width),
		Y: ClampPct(area.OriginY + p.Y/PctMax*area.Height),
	}
}

// ToDisplay is the inverse of ToCanonical: it maps a canonical position
// into the pointer space of the given drill area for drawing inside a
// zoomed view.
func ToDisplay(p types.Position, area *DrillArea) types.Position {
	p = ClampPos(p)
	if !area.Valid() {
		return p
	}
	return types.Position{
		X: ClampPct((p.X - area.OriginX) / area.Width * PctMax),
		Y: ClampPct((p.Y - area.OriginY) / area.Height * PctMax),
	}
}
