package render

import (
	"strconv"

	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/layout"
	"github.com/rondolab/rondo/internal/domain/types"
)

const passMarkerRadius = 10.0

// RenderPassMap draws ball movement onto a full horizontal pitch: a marker
// per event start, an arrow to the end where one exists, player labels
// routed through a fresh placement registry, and a stats strip along the
// bottom. Events are drawn in the order given.
func RenderPassMap(dc *gg.Context, events []types.GraphicEvent, opts Options) error {
	src, err := fonts()
	if err != nil {
		return err
	}
	fc := newFaces(src)
	th := NewTheme(opts.PrimaryHex)
	w, h := float64(passMapWidth), float64(passMapHeight)

	setColor(dc, th.Background)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	title := opts.TeamName
	if title == "" {
		title = "Pass map"
	}
	drawHeader(dc, fc, th, title, opts.Subtitle)

	stripY := h - marginX - stripHeight
	frame := fitPitch(marginX, headerHeight, w-2*marginX, stripY-headerHeight-40,
		geometry.PitchLengthM, geometry.PitchWidthM)
	drawFullPitch(dc, frame, th)

	reg := layout.NewRegistry()
	labeled := make(map[string]bool)

	for _, e := range events {
		x, y := frame.fullPoint(e.StartX, e.StartY)

		if e.HasEnd() {
			ex, ey := frame.fullPoint(e.EndX, e.EndY)
			setColor(dc, withAlpha(th.PrimaryLight, 0.8))
			dc.SetLineWidth(4)
			drawArrow(dc, x, y, ex, ey)
		}

		setColor(dc, th.Primary)
		dc.DrawCircle(x, y, passMarkerRadius)
		dc.Fill()
		setColor(dc, th.PrimaryLight)
		dc.SetLineWidth(2)
		dc.DrawCircle(x, y, passMarkerRadius)
		dc.Stroke()

		if e.PlayerName != "" && !labeled[e.PlayerName] {
			labeled[e.PlayerName] = true
			drawMarkerLabel(dc, reg, fc, th, x, y, passMarkerRadius, e.PlayerName)
		}
	}

	drawStatsStrip(dc, fc, th, marginX, stripY, w-2*marginX, stripHeight, passStats(events))
	return nil
}

func passStats(events []types.GraphicEvent) []statEntry {
	counts := aggregate.CountByType(events, "")
	intoBox := 0
	players := make(map[string]bool)
	for _, e := range events {
		if e.PlayerName != "" {
			players[e.PlayerName] = true
		}
		if e.HasEnd() && inPenaltyArea(e.EndX, e.EndY) {
			intoBox++
		}
	}
	playups := counts[event.TypePlayup] + counts[event.TypePlayupReceived]
	return []statEntry{
		{name: "passes", value: strconv.Itoa(counts[event.TypePass])},
		{name: "playups", value: strconv.Itoa(playups)},
		{name: "into the box", value: strconv.Itoa(intoBox)},
		{name: "players", value: strconv.Itoa(len(players))},
	}
}

// inPenaltyArea reports whether a canonical position lies inside the
// attacking penalty area.
func inPenaltyArea(xPct, yPct float64) bool {
	mx, my := geometry.MetricFull(xPct, yPct)
	return mx >= geometry.PitchLengthM-geometry.PenaltyAreaDepthM &&
		my >= (geometry.PitchWidthM-geometry.PenaltyAreaWidthM)/2 &&
		my <= (geometry.PitchWidthM+geometry.PenaltyAreaWidthM)/2
}
