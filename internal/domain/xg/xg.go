// Package xg derives shot quality from canonical pitch coordinates with a
// fitted two-feature logistic regression.
package xg

import (
	"math"

	"github.com/rondolab/rondo/internal/domain/geometry"
)

// The model works in the 120x80 reference frame its parameters were
// fitted against. Both features derive from the shot's start location:
// Euclidean distance to the goal-mouth centre and the angle the two posts
// subtend, via the law of cosines.
const (
	frameWidth  = 120.0
	frameHeight = 80.0

	goalCentreY  = frameHeight / 2
	goalMouthGap = 8.0 // frame units between the posts

	maxAngleDeg = 180.0

	// Keeps the sigmoid argument finite so predictions stay strictly
	// inside (0,1) for any real input.
	maxLinearTerm = 60.0

	// Post-distance products below this are treated as a shot taken on
	// the goal line between the posts.
	postEpsilon = 1e-9
)

// ShotFeatures are the model inputs derived from a shot location.
type ShotFeatures struct {
	Distance float64 `json:"distance"` // frame units to the goal centre
	Angle    float64 `json:"angle"`    // degrees subtended by the posts
}

// Params is the externally trained artifact: standardization constants
// and logistic coefficients, ordered distance then angle. Parameters are
// injected rather than held in mutable package state so the model stays
// pure and swappable at runtime.
type Params struct {
	Mean      [2]float64 `json:"mean" koanf:"mean"`
	Scale     [2]float64 `json:"scale" koanf:"scale"`
	Coef      [2]float64 `json:"coef" koanf:"coef"`
	Intercept float64    `json:"intercept" koanf:"intercept"`
}

// DefaultParams returns the fitted constants shipped with the service.
func DefaultParams() Params {
	return Params{
		Mean:      [2]float64{16.8, 21.8},
		Scale:     [2]float64{9.5, 14.7},
		Coef:      [2]float64{-1.07, 0.85},
		Intercept: -2.48,
	}
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithParams swaps in an externally trained parameter set. Zero scale
// entries fall back to 1 to keep standardization finite.
func WithParams(p Params) Option {
	return func(m *Model) {
		m.params = p
	}
}

// Model predicts goal probability from shot distance and angle.
type Model struct {
	params Params
}

// New creates a model with the default fitted parameters.
func New(opts ...Option) *Model {
	m := &Model{params: DefaultParams()}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Params returns the active parameter set.
func (m *Model) Params() Params { return m.params }

// ShotFeaturesAt converts canonical percentage coordinates into the model
// frame and derives distance and post angle. Inputs are clamped, never
// rejected: one malformed event must not abort a whole render.
func ShotFeaturesAt(xPct, yPct float64) ShotFeatures {
	x := geometry.ClampPct(xPct) / geometry.PctMax * frameWidth
	y := geometry.ClampPct(yPct) / geometry.PctMax * frameHeight

	dx := frameWidth - x
	distance := math.Hypot(dx, goalCentreY-y)

	a := math.Hypot(dx, y-(goalCentreY-goalMouthGap/2))
	b := math.Hypot(dx, y-(goalCentreY+goalMouthGap/2))

	angle := maxAngleDeg
	if a*b > postEpsilon {
		cosv := (a*a + b*b - goalMouthGap*goalMouthGap) / (2 * a * b)
		cosv = geometry.Clamp(cosv, -1, 1)
		angle = math.Acos(cosv) * 180 / math.Pi
	}

	return ShotFeatures{Distance: distance, Angle: angle}
}

// Predict returns the goal probability for a shot with the given distance
// and post angle. The result is strictly between 0 and 1 and never NaN.
func (m *Model) Predict(distance, angle float64) float64 {
	distance = geometry.Clamp(distance, 0, math.MaxFloat64)
	angle = geometry.Clamp(angle, 0, maxAngleDeg)

	scaleD, scaleA := m.params.Scale[0], m.params.Scale[1]
	if scaleD == 0 {
		scaleD = 1
	}
	if scaleA == 0 {
		scaleA = 1
	}

	z1 := (distance - m.params.Mean[0]) / scaleD
	z2 := (angle - m.params.Mean[1]) / scaleA

	t := m.params.Coef[0]*z1 + m.params.Coef[1]*z2 + m.params.Intercept
	t = geometry.Clamp(t, -maxLinearTerm, maxLinearTerm)

	return 1 / (1 + math.Exp(-t))
}

// PredictAt derives features and predicts in one call.
func (m *Model) PredictAt(xPct, yPct float64) float64 {
	f := ShotFeaturesAt(xPct, yPct)
	return m.Predict(f.Distance, f.Angle)
}
