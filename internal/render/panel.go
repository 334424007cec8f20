package render

import (
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/rondolab/rondo/internal/domain/layout"
	"github.com/rondolab/rondo/pkg/metrics"
)

// Shared layout constants in logical units.
const (
	marginX      = 80.0
	headerHeight = 180.0
	stripHeight  = 200.0

	arrowHeadLength = 16.0
	arrowHeadWidth  = 14.0
)

// faces bundles the type sizes one render uses.
type faces struct {
	title    text.Face
	subtitle text.Face
	label    text.Face
	stat     text.Face
	statName text.Face
	axis     text.Face
}

func newFaces(src *text.FontSource) faces {
	return faces{
		title:    src.Face(fontSizeTitle),
		subtitle: src.Face(fontSizeSubtitle),
		label:    src.Face(fontSizeLabel),
		stat:     src.Face(fontSizeStat),
		statName: src.Face(fontSizeStatName),
		axis:     src.Face(fontSizeAxis),
	}
}

// drawHeader writes the title line and optional subtitle at the top left.
func drawHeader(dc *gg.Context, fc faces, th Theme, title, subtitle string) {
	dc.SetFont(fc.title)
	setColor(dc, th.Text)
	dc.DrawString(title, marginX, 96)
	if subtitle != "" {
		dc.SetFont(fc.subtitle)
		setColor(dc, th.TextMuted)
		dc.DrawString(subtitle, marginX, 150)
	}
}

// statEntry is one cell of a stats strip.
type statEntry struct {
	name  string
	value string
}

// drawStatsStrip draws a horizontal panel of evenly spaced stat cells.
func drawStatsStrip(dc *gg.Context, fc faces, th Theme, x, y, w, h float64, stats []statEntry) {
	if len(stats) == 0 {
		return
	}
	setColor(dc, th.Panel)
	dc.DrawRoundedRectangle(x, y, w, h, 18)
	dc.Fill()

	cell := w / float64(len(stats))
	for i, s := range stats {
		cx := x + cell*float64(i) + cell/2
		dc.SetFont(fc.stat)
		setColor(dc, th.Text)
		dc.DrawStringAnchored(s.value, cx, y+h*0.40, 0.5, 0.5)
		dc.SetFont(fc.statName)
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored(strings.ToUpper(s.name), cx, y+h*0.72, 0.5, 0.5)
	}
}

// drawArrow draws a line with a solid triangular head ending at (x2, y2).
// The current color applies to both shaft and head.
func drawArrow(dc *gg.Context, x1, y1, x2, y2 float64) {
	angle := math.Atan2(y2-y1, x2-x1)
	baseX := x2 - arrowHeadLength*math.Cos(angle)
	baseY := y2 - arrowHeadLength*math.Sin(angle)

	dc.DrawLine(x1, y1, baseX, baseY)
	dc.Stroke()

	leftA := angle + math.Pi/2
	rightA := angle - math.Pi/2
	half := arrowHeadWidth / 2
	dc.MoveTo(x2, y2)
	dc.LineTo(baseX+half*math.Cos(leftA), baseY+half*math.Sin(leftA))
	dc.LineTo(baseX+half*math.Cos(rightA), baseY+half*math.Sin(rightA))
	dc.ClosePath()
	dc.Fill()
}

// markerCandidates builds a placement ring scaled to a marker radius so
// labels clear the glyph they annotate.
func markerCandidates(r float64) []layout.Candidate {
	g := r + 10
	d := g * 0.75
	return []layout.Candidate{
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

// drawMarkerLabel measures, places and draws one marker label through the
// registry so labels routed later avoid it.
func drawMarkerLabel(dc *gg.Context, reg *layout.Registry, fc faces, th Theme, x, y, r float64, label string) {
	if label == "" {
		return
	}
	dc.SetFont(fc.label)
	w, h := dc.MeasureString(label)
	reg.Occupy(layout.Rect{X: x - r, Y: y - r, W: 2 * r, H: 2 * r})
	p := reg.Place(x, y, w, h, markerCandidates(r))
	if p.Clean {
		metrics.RecordLabelPlaced()
	} else {
		metrics.RecordLabelOverlap()
	}
	setColor(dc, th.Text)
	dc.DrawStringAnchored(label, p.Rect.X+p.Rect.W/2, p.Rect.Y+p.Rect.H/2, 0.5, 0.5)
}
