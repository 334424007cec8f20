package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
)

// Report panel tuning.
const (
	reportTypeRows    = 5
	reportLeaderRows  = 6
	reportBreakdownN  = 3
	miniShotMarkerMin = 6.0
	miniShotMarkerMax = 22.0
)

// RenderReport draws the composite match report: a per-type count
// comparison, the top performer table, and miniature shot map and
// timeline panels.
func RenderReport(dc *gg.Context, events []types.GraphicEvent, opts Options) error {
	src, err := fonts()
	if err != nil {
		return err
	}
	fc := newFaces(src)
	th := NewTheme(opts.PrimaryHex)
	w, h := float64(reportWidth), float64(reportHeight)

	setColor(dc, th.Background)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	title := opts.TeamName
	if title == "" {
		title = "Match report"
	}
	drawHeader(dc, fc, th, title, opts.Subtitle)

	colW := (w - 2*marginX - 80) / 2
	leftX := marginX
	rightX := leftX + colW + 80

	drawCountsPanel(dc, fc, th, leftX, 220, colW, 600, events)
	drawLeadersPanel(dc, fc, th, leftX, 880, colW, 640, events)
	drawMiniShotPanel(dc, fc, th, rightX, 220, colW, 720, events, opts)
	drawMiniTimeline(dc, fc, th, rightX, 1000, colW, 520, events, opts)
	return nil
}

// drawCountsPanel compares per-type counts between the first two teams as
// mirrored bars around a centre column of type names.
func drawCountsPanel(dc *gg.Context, fc faces, th Theme, x, y, w, h float64, events []types.GraphicEvent) {
	setColor(dc, th.Panel)
	dc.DrawRoundedRectangle(x, y, w, h, 18)
	dc.Fill()

	teams := aggregate.Teams(events)
	if len(teams) > 2 {
		teams = teams[:2]
	}
	topTypes := aggregate.TopTypes(events, reportTypeRows)
	if len(topTypes) == 0 {
		dc.SetFont(fc.subtitle)
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored("No events tagged yet", x+w/2, y+h/2, 0.5, 0.5)
		return
	}

	counts := make([]map[string]int, len(teams))
	maxCount := 1
	for i, team := range teams {
		counts[i] = aggregate.CountByType(events, team)
		for _, name := range topTypes {
			if c := counts[i][name]; c > maxCount {
				maxCount = c
			}
		}
	}

	rowH := (h - 60) / float64(len(topTypes))
	centerX := x + w/2
	barMax := w/2 - 170
	barH := math.Min(rowH*0.38, 36)

	for r, name := range topTypes {
		rowY := y + 30 + rowH*float64(r) + rowH/2

		dc.SetFont(fc.label)
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored(strings.ToUpper(name), centerX, rowY-barH, 0.5, 0.5)

		for i := range teams {
			c := counts[i][name]
			barW := float64(c) / float64(maxCount) * barMax
			col := seriesColor(i, th)

			setColor(dc, col)
			if i == 0 {
				dc.DrawRectangle(centerX-30-barW, rowY-barH/2, barW, barH)
			} else {
				dc.DrawRectangle(centerX+30, rowY-barH/2, barW, barH)
			}
			dc.Fill()

			dc.SetFont(fc.stat)
			setColor(dc, th.Text)
			if i == 0 {
				dc.DrawStringAnchored(strconv.Itoa(c), x+60, rowY, 0.5, 0.5)
			} else {
				dc.DrawStringAnchored(strconv.Itoa(c), x+w-60, rowY, 0.5, 0.5)
			}
		}
	}
}

// drawLeadersPanel lists the most active players with their per-type
// breakdowns.
func drawLeadersPanel(dc *gg.Context, fc faces, th Theme, x, y, w, h float64, events []types.GraphicEvent) {
	setColor(dc, th.Panel)
	dc.DrawRoundedRectangle(x, y, w, h, 18)
	dc.Fill()

	dc.SetFont(fc.subtitle)
	setColor(dc, th.Text)
	dc.DrawString("Top performers", x+40, y+60)

	leaders := aggregate.TopPerformers(events, reportBreakdownN)
	if len(leaders) > reportLeaderRows {
		leaders = leaders[:reportLeaderRows]
	}
	if len(leaders) == 0 {
		dc.SetFont(fc.label)
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored("No players tagged yet", x+w/2, y+h/2, 0.5, 0.5)
		return
	}

	rowH := (h - 110) / float64(reportLeaderRows)
	for i, l := range leaders {
		rowY := y + 100 + rowH*float64(i) + rowH/2

		dc.SetFont(fc.label)
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored(strconv.Itoa(i+1), x+56, rowY, 0.5, 0.5)

		setColor(dc, th.Text)
		dc.DrawString(fmt.Sprintf("%s (Team %s)", l.PlayerName, l.Team), x+100, rowY+9)

		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored(breakdownLine(l), x+w-170, rowY, 1, 0.5)

		dc.SetFont(fc.stat)
		setColor(dc, th.Text)
		dc.DrawStringAnchored(strconv.Itoa(l.Total), x+w-80, rowY, 0.5, 0.5)
	}
}

// breakdownLine formats a leader's per-type counts, highest first.
func breakdownLine(l aggregate.Leader) string {
	parts := make([]string, 0, len(l.Breakdown))
	for _, name := range sortedBreakdownTypes(l.Breakdown) {
		parts = append(parts, fmt.Sprintf("%s %d", name, l.Breakdown[name]))
	}
	return strings.Join(parts, "  ")
}

func sortedBreakdownTypes(b map[string]int) []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if b[names[i]] != b[names[j]] {
			return b[names[i]] > b[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// drawMiniShotPanel is the report's shot map: half pitch, unlabelled
// markers, goals in accent.
func drawMiniShotPanel(dc *gg.Context, fc faces, th Theme, x, y, w, h float64, events []types.GraphicEvent, opts Options) {
	frame := fitPitch(x, y, w, h, geometry.PitchWidthM, geometry.HalfPitchLengthM)
	drawHalfPitch(dc, frame, th)

	for _, e := range events {
		if !event.IsShotLike(e.Type) {
			continue
		}
		px, py := frame.halfPoint(e.StartX, e.StartY)
		t := math.Sqrt(geometry.Clamp(e.XG, 0, 1))
		r := miniShotMarkerMin + t*(miniShotMarkerMax-miniShotMarkerMin)

		if e.IsGoal {
			setColor(dc, th.Accent)
		} else {
			setColor(dc, withAlpha(th.Primary, 0.75))
		}
		dc.DrawCircle(px, py, r)
		dc.Fill()
	}
}

// drawMiniTimeline is the report's xG timeline: step lines only, no axis
// furniture beyond a baseline.
func drawMiniTimeline(dc *gg.Context, fc faces, th Theme, x, y, w, h float64, events []types.GraphicEvent, opts Options) {
	setColor(dc, th.Panel)
	dc.DrawRoundedRectangle(x, y, w, h, 18)
	dc.Fill()

	series := aggregate.CumulativeXG(events, aggregate.WithLiveMinute(opts.LiveMinute))

	maxMinute, maxXG := timelineBounds(series, opts.LiveMinute)
	plotX, plotY := x+40, y+40
	plotW, plotH := w-80, h-110

	setColor(dc, th.Grid)
	dc.SetLineWidth(1)
	dc.DrawLine(plotX, plotY+plotH, plotX+plotW, plotY+plotH)
	dc.Stroke()

	dc.SetFont(fc.axis)
	setColor(dc, th.TextMuted)
	dc.DrawStringAnchored("xG timeline", x+w/2, y+h-34, 0.5, 0.5)

	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		setColor(dc, seriesColor(i, th))
		dc.SetLineWidth(4)
		dc.MoveTo(plotX+s.Points[0].Minute/maxMinute*plotW, plotY+plotH-s.Points[0].Cumulative/maxXG*plotH)
		for j := 1; j < len(s.Points); j++ {
			px := plotX + s.Points[j].Minute/maxMinute*plotW
			dc.LineTo(px, plotY+plotH-s.Points[j-1].Cumulative/maxXG*plotH)
			dc.LineTo(px, plotY+plotH-s.Points[j].Cumulative/maxXG*plotH)
		}
		dc.Stroke()
	}
}
