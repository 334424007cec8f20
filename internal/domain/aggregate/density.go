package aggregate

import (
	"math"

	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
)

// Density grid defaults. The bandwidth is a smoothing heuristic tuned for
// match-scale event counts on a 480x320 grid, not a calibrated density
// estimate; treat sigma as a look, not a statistic.
const (
	defaultGridW     = 480
	defaultGridH     = 320
	defaultSigma     = 24.0
	kernelTruncation = 3.0 // kernel radius in sigmas
)

// Grid is a row-major accumulator of Gaussian-smoothed event density over
// the canonical pitch. It lives for one render and is discarded.
type Grid struct {
	W      int
	H      int
	Sigma  float64
	Values []float64
	Max    float64
}

// At returns the raw accumulated value of a cell.
func (g *Grid) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return 0
	}
	return g.Values[y*g.W+x]
}

// Normalized returns the cell value scaled by the grid maximum, guarding
// the empty-grid divide.
func (g *Grid) Normalized(x, y int) float64 {
	if g.Max <= 0 {
		return 0
	}
	return g.At(x, y) / g.Max
}

// DensityOption adjusts grid resolution and bandwidth.
type DensityOption func(*densityConfig)

type densityConfig struct {
	w     int
	h     int
	sigma float64
}

// WithGridSize overrides the grid resolution.
func WithGridSize(w, h int) DensityOption {
	return func(c *densityConfig) {
		if w > 0 && h > 0 {
			c.w = w
			c.h = h
		}
	}
}

// WithSigma overrides the kernel bandwidth in grid units.
func WithSigma(sigma float64) DensityOption {
	return func(c *densityConfig) {
		if sigma > 0 {
			c.sigma = sigma
		}
	}
}

// BuildDensityGrid accumulates a truncated Gaussian kernel at every event
// start position. It returns nil when nothing accumulates, which callers
// read as "skip the overlay" rather than normalizing by zero.
func BuildDensityGrid(events []types.GraphicEvent, opts ...DensityOption) *Grid {
	cfg := densityConfig{w: defaultGridW, h: defaultGridH, sigma: defaultSigma}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(events) == 0 {
		return nil
	}

	g := &Grid{
		W:      cfg.w,
		H:      cfg.h,
		Sigma:  cfg.sigma,
		Values: make([]float64, cfg.w*cfg.h),
	}

	radius := int(math.Ceil(kernelTruncation * cfg.sigma))
	maxDistSq := kernelTruncation * cfg.sigma * kernelTruncation * cfg.sigma
	twoSigmaSq := 2 * cfg.sigma * cfg.sigma

	for _, e := range events {
		cx := geometry.ClampPct(e.StartX) / geometry.PctMax * float64(cfg.w-1)
		cy := geometry.ClampPct(e.StartY) / geometry.PctMax * float64(cfg.h-1)

		x0 := maxInt(0, int(cx)-radius)
		x1 := minInt(cfg.w-1, int(cx)+radius)
		y0 := maxInt(0, int(cy)-radius)
		y1 := minInt(cfg.h-1, int(cy)+radius)

		for y := y0; y <= y1; y++ {
			dy := float64(y) - cy
			for x := x0; x <= x1; x++ {
				dx := float64(x) - cx
				distSq := dx*dx + dy*dy
				if distSq > maxDistSq {
					continue
				}
				v := math.Exp(-distSq / twoSigmaSq)
				idx := y*cfg.w + x
				g.Values[idx] += v
				if g.Values[idx] > g.Max {
					g.Max = g.Values[idx]
				}
			}
		}
	}

	if g.Max <= 0 {
		return nil
	}
	return g
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
