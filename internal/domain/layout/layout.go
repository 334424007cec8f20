// Package layout places text labels around plot markers without piling
// them on top of each other. Placement is greedy and order-dependent:
// callers feed markers in a deterministic order and every render owns its
// own Registry.
package layout

// Default placement tuning in logical canvas units.
const (
	defaultPadding = 4.0
	defaultRingGap = 14.0
	diagonalFactor = 0.75
)

// Rect is an axis-aligned box.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Pad grows the box by p on every side.
func (r Rect) Pad(p float64) Rect {
	return Rect{X: r.X - p, Y: r.Y - p, W: r.W + 2*p, H: r.H + 2*p}
}

// Intersection returns the overlapping area of two boxes, zero when they
// are disjoint.
func (r Rect) Intersection(o Rect) float64 {
	w := min(r.X+r.W, o.X+o.W) - max(r.X, o.X)
	if w <= 0 {
		return 0
	}
	h := min(r.Y+r.H, o.Y+o.H) - max(r.Y, o.Y)
	if h <= 0 {
		return 0
	}
	return w * h
}

// Intersects reports whether two boxes overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Intersection(o) > 0
}

// Candidate is one place to try relative to an anchor point. DX and DY
// offset the label from the anchor; AlignX and AlignY pick which point of
// the label box lands on the offset position (0 = left/top, 0.5 = centre,
// 1 = right/bottom).
type Candidate struct {
	DX     float64
	DY     float64
	AlignX float64
	AlignY float64
}

// Placement is the outcome of one Place call.
type Placement struct {
	Rect      Rect
	Candidate Candidate
	Clean     bool
}

// Registry tracks the boxes already placed during one render. It is not
// safe for concurrent use; concurrent renders own separate registries.
type Registry struct {
	padding float64
	placed  []Rect
}

// Option adjusts a Registry.
type Option func(*Registry)

// WithPadding overrides the clearance kept between label boxes.
func WithPadding(p float64) Option {
	return func(r *Registry) {
		if p >= 0 {
			r.padding = p
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{padding: defaultPadding}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Occupy registers a box that labels must avoid, typically the marker
// glyph itself.
func (r *Registry) Occupy(rect Rect) {
	r.placed = append(r.placed, rect)
}

// Len returns the number of registered boxes.
func (r *Registry) Len() int {
	return len(r.placed)
}

// Reset clears the registry for reuse within the same render.
func (r *Registry) Reset() {
	r.placed = r.placed[:0]
}

// Place tries each candidate in order and returns the first whose padded
// box overlaps nothing placed so far. When every candidate collides it
// falls back to the one with the smallest total overlap. The chosen box
// is registered either way, so later labels route around it.
func (r *Registry) Place(anchorX, anchorY, w, h float64, candidates []Candidate) Placement {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}

	best := Placement{Rect: r.boxFor(anchorX, anchorY, w, h, candidates[0]), Candidate: candidates[0]}
	bestOverlap := -1.0

	for _, c := range candidates {
		box := r.boxFor(anchorX, anchorY, w, h, c)
		overlap := r.totalOverlap(box.Pad(r.padding))
		if overlap == 0 {
			r.placed = append(r.placed, box)
			return Placement{Rect: box, Candidate: c, Clean: true}
		}
		if bestOverlap < 0 || overlap < bestOverlap {
			bestOverlap = overlap
			best = Placement{Rect: box, Candidate: c}
		}
	}

	r.placed = append(r.placed, best.Rect)
	return best
}

func (r *Registry) boxFor(anchorX, anchorY, w, h float64, c Candidate) Rect {
	return Rect{
		X: anchorX + c.DX - c.AlignX*w,
		Y: anchorY + c.DY - c.AlignY*h,
		W: w,
		H: h,
	}
}

func (r *Registry) totalOverlap(box Rect) float64 {
	total := 0.0
	for _, p := range r.placed {
		total += box.Intersection(p)
	}
	return total
}

// DefaultCandidates returns the standard ring tried by marker labelling:
// above, below, right, left, then the diagonals.
func DefaultCandidates() []Candidate {
	g := defaultRingGap
	d := defaultRingGap * diagonalFactor
	return []Candidate{
		{DX: 0, DY: -g, AlignX: 0.5, AlignY: 1},
		{DX: 0, DY: g, AlignX: 0.5, AlignY: 0},
		{DX: g, DY: 0, AlignX: 0, AlignY: 0.5},
		{DX: -g, DY: 0, AlignX: 1, AlignY: 0.5},
		{DX: d, DY: -d, AlignX: 0, AlignY: 1},
		{DX: -d, DY: -d, AlignX: 1, AlignY: 1},
		{DX: d, DY: d, AlignX: 0, AlignY: 0},
		{DX: -d, DY: d, AlignX: 1, AlignY: 0},
	}
}
