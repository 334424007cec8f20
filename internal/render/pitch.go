package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/geometry"
)

const (
	pitchLineWidth = 3.0
	spotRadius     = 5.0
)

// pitchFrame maps metric pitch coordinates onto a logical screen box,
// preserving aspect ratio and centring the pitch inside the box.
type pitchFrame struct {
	x      float64
	y      float64
	scale  float64
	mW, mH float64
}

// fitPitch fits a metric rect of metersW x metersH into the target box.
func fitPitch(x, y, w, h, metersW, metersH float64) pitchFrame {
	scale := math.Min(w/metersW, h/metersH)
	return pitchFrame{
		x:     x + (w-metersW*scale)/2,
		y:     y + (h-metersH*scale)/2,
		scale: scale,
		mW:    metersW,
		mH:    metersH,
	}
}

// at converts metric coordinates to logical canvas coordinates.
func (f pitchFrame) at(mx, my float64) (float64, float64) {
	return f.x + mx*f.scale, f.y + my*f.scale
}

// fullPoint places a canonical percentage position on a full pitch frame.
func (f pitchFrame) fullPoint(xPct, yPct float64) (float64, float64) {
	return f.at(geometry.MetricFull(xPct, yPct))
}

// halfPoint places a canonical percentage position on a vertical half
// pitch frame.
func (f pitchFrame) halfPoint(xPct, yPct float64) (float64, float64) {
	return f.at(geometry.MetricHalf(xPct, yPct))
}

func (f pitchFrame) width() float64  { return f.mW * f.scale }
func (f pitchFrame) height() float64 { return f.mH * f.scale }

// drawFullPitch draws a horizontal pitch with true-to-scale markings.
func drawFullPitch(dc *gg.Context, f pitchFrame, th Theme) {
	x0, y0 := f.at(0, 0)

	setColor(dc, th.Pitch)
	dc.DrawRectangle(x0, y0, f.width(), f.height())
	dc.Fill()

	setColor(dc, th.PitchLine)
	dc.SetLineWidth(pitchLineWidth)

	dc.DrawRectangle(x0, y0, f.width(), f.height())
	dc.Stroke()

	hx, _ := f.at(geometry.HalfPitchLengthM, 0)
	dc.DrawLine(hx, y0, hx, y0+f.height())
	dc.Stroke()

	cx, cy := f.at(geometry.HalfPitchLengthM, geometry.PitchWidthM/2)
	dc.DrawCircle(cx, cy, geometry.CentreCircleRadiusM*f.scale)
	dc.Stroke()
	dc.DrawCircle(cx, cy, spotRadius)
	dc.Fill()

	drawPitchEnd(dc, f, geometry.GoalLeft)
	drawPitchEnd(dc, f, geometry.GoalRight)
	drawCornerArcs(dc, f)
}

// drawPitchEnd draws the boxes, spot, arc and goal mouth of one end of a
// horizontal pitch.
func drawPitchEnd(dc *gg.Context, f pitchFrame, side geometry.GoalSide) {
	midY := geometry.PitchWidthM / 2

	// Metric x of a marking at the given depth from this end's goal line.
	depth := func(d float64) float64 {
		if side == geometry.GoalRight {
			return geometry.PitchLengthM - d
		}
		return d
	}

	boxX := math.Min(depth(0), depth(geometry.PenaltyAreaDepthM))
	px, py := f.at(boxX, midY-geometry.PenaltyAreaWidthM/2)
	dc.DrawRectangle(px, py, geometry.PenaltyAreaDepthM*f.scale, geometry.PenaltyAreaWidthM*f.scale)
	dc.Stroke()

	sixX := math.Min(depth(0), depth(geometry.SixYardDepthM))
	sx, sy := f.at(sixX, midY-geometry.SixYardWidthM/2)
	dc.DrawRectangle(sx, sy, geometry.SixYardDepthM*f.scale, geometry.SixYardWidthM*f.scale)
	dc.Stroke()

	spotX, spotY := f.at(depth(geometry.PenaltySpotM), midY)
	dc.DrawCircle(spotX, spotY, spotRadius)
	dc.Fill()

	a1, a2 := geometry.PenaltyArcAngles(side)
	dc.DrawArc(spotX, spotY, geometry.PenaltyArcRadiusM*f.scale, a1, a2)
	dc.Stroke()

	goalDepth := 2.0
	gx := depth(0)
	if side == geometry.GoalLeft {
		gx -= goalDepth
	}
	gpx, gpy := f.at(gx, midY-geometry.GoalWidthM/2)
	dc.DrawRectangle(gpx, gpy, goalDepth*f.scale, geometry.GoalWidthM*f.scale)
	dc.Stroke()
}

// drawCornerArcs draws the four corner quadrants of a horizontal pitch,
// each sweeping into the field of play.
func drawCornerArcs(dc *gg.Context, f pitchFrame) {
	r := geometry.CornerArcRadiusM * f.scale
	corners := []struct {
		mx, my float64
		a1, a2 float64
	}{
		{0, 0, 0, math.Pi / 2},
		{geometry.PitchLengthM, 0, math.Pi / 2, math.Pi},
		{geometry.PitchLengthM, geometry.PitchWidthM, math.Pi, 3 * math.Pi / 2},
		{0, geometry.PitchWidthM, 3 * math.Pi / 2, 2 * math.Pi},
	}
	for _, c := range corners {
		cx, cy := f.at(c.mx, c.my)
		dc.DrawArc(cx, cy, r, c.a1, c.a2)
		dc.Stroke()
	}
}

// drawHalfPitch draws a vertical attacking half with the goal line along
// the top edge, the projection used by shot maps.
func drawHalfPitch(dc *gg.Context, f pitchFrame, th Theme) {
	x0, y0 := f.at(0, 0)
	midX := geometry.PitchWidthM / 2

	setColor(dc, th.Pitch)
	dc.DrawRectangle(x0, y0, f.width(), f.height())
	dc.Fill()

	setColor(dc, th.PitchLine)
	dc.SetLineWidth(pitchLineWidth)

	dc.DrawRectangle(x0, y0, f.width(), f.height())
	dc.Stroke()

	px, py := f.at(midX-geometry.PenaltyAreaWidthM/2, 0)
	dc.DrawRectangle(px, py, geometry.PenaltyAreaWidthM*f.scale, geometry.PenaltyAreaDepthM*f.scale)
	dc.Stroke()

	sx, sy := f.at(midX-geometry.SixYardWidthM/2, 0)
	dc.DrawRectangle(sx, sy, geometry.SixYardWidthM*f.scale, geometry.SixYardDepthM*f.scale)
	dc.Stroke()

	spotX, spotY := f.at(midX, geometry.PenaltySpotM)
	dc.DrawCircle(spotX, spotY, spotRadius)
	dc.Fill()

	a1, a2 := geometry.PenaltyArcAngles(geometry.GoalTop)
	dc.DrawArc(spotX, spotY, geometry.PenaltyArcRadiusM*f.scale, a1, a2)
	dc.Stroke()

	// Halfway line runs along the bottom edge with the visible half of
	// the centre circle above it.
	ccx, ccy := f.at(midX, geometry.HalfPitchLengthM)
	dc.DrawArc(ccx, ccy, geometry.CentreCircleRadiusM*f.scale, math.Pi, 2*math.Pi)
	dc.Stroke()

	gx, gy := f.at(midX-geometry.GoalWidthM/2, -2)
	dc.DrawRectangle(gx, gy, geometry.GoalWidthM*f.scale, 2*f.scale)
	dc.Stroke()

	r := geometry.CornerArcRadiusM * f.scale
	lx, ly := f.at(0, 0)
	dc.DrawArc(lx, ly, r, 0, math.Pi/2)
	dc.Stroke()
	rx, ry := f.at(geometry.PitchWidthM, 0)
	dc.DrawArc(rx, ry, r, math.Pi/2, math.Pi)
	dc.Stroke()
}
