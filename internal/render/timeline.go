package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/layout"
)

// Timeline plot tuning.
const (
	timelineLineWidth  = 5.0
	timelineGoalRadius = 10.0
	minuteGridStep     = 15.0
	xgGridStep         = 0.25
	minTimelineXG      = 0.5
)

// RenderTimeline draws cumulative xG step lines, one per team, with
// minute gridlines, goal markers and a legend carrying final totals.
func RenderTimeline(dc *gg.Context, series []aggregate.TimelineSeries, opts Options) error {
	src, err := fonts()
	if err != nil {
		return err
	}
	fc := newFaces(src)
	th := NewTheme(opts.PrimaryHex)
	w, h := float64(timelineWidth), float64(timelineHeight)

	setColor(dc, th.Background)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	title := opts.TeamName
	if title == "" {
		title = "xG timeline"
	}
	drawHeader(dc, fc, th, title, opts.Subtitle)

	plotX := marginX + 100
	plotY := headerHeight + 30
	plotW := w - plotX - marginX
	plotH := h - plotY - marginX - 70

	maxMinute, maxXG := timelineBounds(series, opts.LiveMinute)

	xAt := func(minute float64) float64 { return plotX + minute/maxMinute*plotW }
	yAt := func(xg float64) float64 { return plotY + plotH - xg/maxXG*plotH }

	setColor(dc, th.Panel)
	dc.DrawRectangle(plotX, plotY, plotW, plotH)
	dc.Fill()

	// Gridlines and axis labels.
	dc.SetLineWidth(1)
	dc.SetFont(fc.axis)
	for m := 0.0; m <= maxMinute; m += minuteGridStep {
		setColor(dc, th.Grid)
		dc.DrawLine(xAt(m), plotY, xAt(m), plotY+plotH)
		dc.Stroke()
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f'", m), xAt(m), plotY+plotH+36, 0.5, 0.5)
	}
	for v := 0.0; v <= maxXG+1e-9; v += xgGridStep {
		setColor(dc, th.Grid)
		dc.DrawLine(plotX, yAt(v), plotX+plotW, yAt(v))
		dc.Stroke()
		setColor(dc, th.TextMuted)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", v), plotX-16, yAt(v), 1, 0.5)
	}

	if opts.LiveMinute > 0 {
		setColor(dc, withAlpha(th.Text, 0.6))
		dc.SetLineWidth(2)
		dc.SetDash(12, 10)
		dc.DrawLine(xAt(float64(opts.LiveMinute)), plotY, xAt(float64(opts.LiveMinute)), plotY+plotH)
		dc.Stroke()
		dc.ClearDash()
	}

	reg := layout.NewRegistry()

	for i, s := range series {
		col := seriesColor(i, th)
		if len(s.Points) == 0 {
			continue
		}

		setColor(dc, col)
		dc.SetLineWidth(timelineLineWidth)
		dc.MoveTo(xAt(s.Points[0].Minute), yAt(s.Points[0].Cumulative))
		for j := 1; j < len(s.Points); j++ {
			dc.LineTo(xAt(s.Points[j].Minute), yAt(s.Points[j-1].Cumulative))
			dc.LineTo(xAt(s.Points[j].Minute), yAt(s.Points[j].Cumulative))
		}
		dc.Stroke()

		for _, p := range s.Points {
			if !p.IsGoal {
				continue
			}
			gx, gy := xAt(p.Minute), yAt(p.Cumulative)
			setColor(dc, col)
			dc.DrawCircle(gx, gy, timelineGoalRadius)
			dc.Fill()
			setColor(dc, th.Text)
			dc.SetLineWidth(2)
			dc.DrawCircle(gx, gy, timelineGoalRadius)
			dc.Stroke()
			drawMarkerLabel(dc, reg, fc, th, gx, gy, timelineGoalRadius, p.PlayerName)
		}
	}

	drawTimelineLegend(dc, fc, th, series, plotX+plotW, plotY)
	return nil
}

// timelineBounds picks tidy plot extents covering every series.
func timelineBounds(series []aggregate.TimelineSeries, liveMinute int) (float64, float64) {
	maxMinute := float64(45)
	if float64(liveMinute) > maxMinute {
		maxMinute = float64(liveMinute)
	}
	maxXG := 0.0
	for _, s := range series {
		if n := len(s.Points); n > 0 && s.Points[n-1].Minute > maxMinute {
			maxMinute = s.Points[n-1].Minute
		}
		if t := s.Total(); t > maxXG {
			maxXG = t
		}
	}
	if maxXG < minTimelineXG {
		maxXG = minTimelineXG
	}
	maxXG = math.Ceil(maxXG/xgGridStep) * xgGridStep
	return maxMinute, maxXG
}

func drawTimelineLegend(dc *gg.Context, fc faces, th Theme, series []aggregate.TimelineSeries, right, top float64) {
	dc.SetFont(fc.subtitle)
	y := top - 26
	for i := len(series) - 1; i >= 0; i-- {
		s := series[i]
		entry := fmt.Sprintf("Team %s: %.2f xG", s.Team, s.Total())
		tw, _ := dc.MeasureString(entry)

		setColor(dc, th.Text)
		dc.DrawStringAnchored(entry, right, y, 1, 0.5)
		setColor(dc, seriesColor(i, th))
		dc.DrawRectangle(right-tw-44, y-14, 28, 28)
		dc.Fill()

		right -= tw + 80
	}
}

// seriesColor assigns a stable colour per series index.
func seriesColor(i int, th Theme) gg.RGBA {
	switch i {
	case 0:
		return th.Primary
	case 1:
		return th.Accent
	default:
		return gg.HSL(float64(140+i*67), 0.55, 0.6)
	}
}
