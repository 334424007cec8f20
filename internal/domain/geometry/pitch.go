package geometry

import "math"

// Pitch dimensions in metres, per the IFAB standard layout used by the
// renderers for true-to-scale markings.
const (
	PitchLengthM = 105.0
	PitchWidthM  = 68.0

	PenaltyAreaDepthM = 16.5
	PenaltyAreaWidthM = 40.32
	SixYardDepthM     = 5.5
	SixYardWidthM     = 18.32
	GoalWidthM        = 7.32
	PenaltySpotM      = 11.0

	CentreCircleRadiusM = 9.15
	PenaltyArcRadiusM   = 9.15
	CornerArcRadiusM    = 1.0
)

// HalfPitchLengthM is the playing length of one half, the vertical extent
// of half-pitch projections.
const HalfPitchLengthM = PitchLengthM / 2

// MetricFull projects canonical percentages onto the full horizontal
// pitch: x in [0,105] metres left to right, y in [0,68] metres top to
// bottom.
func MetricFull(xPct, yPct float64) (float64, float64) {
	return ClampPct(xPct) / PctMax * PitchLengthM, ClampPct(yPct) / PctMax * PitchWidthM
}

// MetricHalf projects canonical percentages onto a vertical attacking
// half: the goal line sits at the top (0 metres), the halfway line at the
// bottom (52.5 metres), and y percentages run across the 68 metre width.
// x percentages below the halfway line clamp onto it.
func MetricHalf(xPct, yPct float64) (float64, float64) {
	x := Clamp(xPct, PctMax/2, PctMax)
	hx := ClampPct(yPct) / PctMax * PitchWidthM
	hy := (PctMax - x) / PctMax * PitchLengthM
	return hx, hy
}

// GoalSide selects which goal a marking belongs to.
type GoalSide int

// Goal sides for arc derivation. GoalTop is the half-pitch projection
// where the goal line runs along the top edge.
const (
	GoalLeft GoalSide = iota
	GoalRight
	GoalTop
)

// penaltyArcHalfAngle derives the half-angle of the visible penalty arc
// sector from the intersection of the arc circle with the penalty-box
// edge: the circle is centred on the spot, 11m from the goal line, and is
// cut by the box line 16.5m from the goal line.
func penaltyArcHalfAngle() float64 {
	return math.Acos((PenaltyAreaDepthM - PenaltySpotM) / PenaltyArcRadiusM)
}

// PenaltyArcAngles returns the start and end angle, in radians on a
// y-down canvas, of the penalty-arc sector that bulges away from the
// given goal. The sweep is derived, not hardcoded, so a change in box or
// arc dimensions keeps the marking correct.
func PenaltyArcAngles(side GoalSide) (float64, float64) {
	phi := penaltyArcHalfAngle()
	switch side {
	case GoalLeft:
		return -phi, phi
	case GoalRight:
		return math.Pi - phi, math.Pi + phi
	default:
		return math.Pi/2 - phi, math.Pi/2 + phi
	}
}
