package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/layout"
	"github.com/rondolab/rondo/internal/domain/types"
)

// Shot marker sizing in logical units.
const (
	shotMarkerMin = 10.0
	shotMarkerMax = 46.0
	shotMaxDistM  = 45.0
)

// RenderShotMap draws shots onto a vertical attacking half. Marker area
// tracks chance quality: radius grows with the square root of xG, or with
// proximity to goal in distance mode. Goals get the accent fill.
func RenderShotMap(dc *gg.Context, events []types.GraphicEvent, opts Options) error {
	src, err := fonts()
	if err != nil {
		return err
	}
	fc := newFaces(src)
	th := NewTheme(opts.PrimaryHex)
	w, h := float64(shotMapWidth), float64(shotMapHeight)

	setColor(dc, th.Background)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	title := opts.TeamName
	if title == "" {
		title = "Shot map"
	}
	drawHeader(dc, fc, th, title, opts.Subtitle)

	stripY := h - marginX - stripHeight
	frame := fitPitch(marginX, headerHeight, w-2*marginX, stripY-headerHeight-40,
		geometry.PitchWidthM, geometry.HalfPitchLengthM)
	drawHalfPitch(dc, frame, th)

	reg := layout.NewRegistry()

	for _, e := range events {
		if !event.IsShotLike(e.Type) {
			continue
		}
		x, y := frame.halfPoint(e.StartX, e.StartY)
		r := shotRadius(e, opts.SizeBy)

		if e.IsGoal {
			setColor(dc, th.Accent)
			dc.DrawCircle(x, y, r)
			dc.Fill()
			setColor(dc, th.Text)
		} else {
			setColor(dc, withAlpha(th.Primary, 0.75))
			dc.DrawCircle(x, y, r)
			dc.Fill()
			setColor(dc, th.PrimaryLight)
		}
		dc.SetLineWidth(3)
		dc.DrawCircle(x, y, r)
		dc.Stroke()

		label := strings.TrimSpace(fmt.Sprintf("%s %.2f", e.PlayerName, e.XG))
		drawMarkerLabel(dc, reg, fc, th, x, y, r, label)
	}

	drawStatsStrip(dc, fc, th, marginX, stripY, w-2*marginX, stripHeight, shotStats(events))
	return nil
}

// shotRadius maps one shot to a marker radius for the active size mode.
func shotRadius(e types.GraphicEvent, mode SizeMode) float64 {
	var t float64
	switch mode {
	case SizeByDistance:
		hx, hy := geometry.MetricHalf(e.StartX, e.StartY)
		d := math.Hypot(hx-geometry.PitchWidthM/2, hy)
		t = 1 - geometry.Clamp(d/shotMaxDistM, 0, 1)
	default:
		t = math.Sqrt(geometry.Clamp(e.XG, 0, 1))
	}
	return shotMarkerMin + t*(shotMarkerMax-shotMarkerMin)
}

func shotStats(events []types.GraphicEvent) []statEntry {
	shots, goals := 0, 0
	totalXG := 0.0
	for _, e := range events {
		if !event.IsShotLike(e.Type) {
			continue
		}
		shots++
		totalXG += e.XG
		if e.IsGoal {
			goals++
		}
	}
	perShot := 0.0
	if shots > 0 {
		perShot = totalXG / float64(shots)
	}
	return []statEntry{
		{name: "shots", value: strconv.Itoa(shots)},
		{name: "goals", value: strconv.Itoa(goals)},
		{name: "xg", value: fmt.Sprintf("%.2f", totalXG)},
		{name: "xg per shot", value: fmt.Sprintf("%.2f", perShot)},
	}
}
