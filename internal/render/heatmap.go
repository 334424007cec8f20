package render

import (
	"github.com/gogpu/gg"

	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
)

const (
	heatOverlayOpacity = 0.85
	heatVisibleFloor   = 0.02
	heatDotRadius      = 4.0
)

// RenderHeatmap draws the density grid as a colour ramp over a full
// pitch, with faint dots at the underlying event positions. A nil grid
// renders the bare pitch, which is what an empty match looks like.
func RenderHeatmap(dc *gg.Context, events []types.GraphicEvent, grid *aggregate.Grid, opts Options) error {
	src, err := fonts()
	if err != nil {
		return err
	}
	fc := newFaces(src)
	th := NewTheme(opts.PrimaryHex)
	w, h := float64(heatmapWidth), float64(heatmapHeight)

	setColor(dc, th.Background)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	title := opts.TeamName
	if title == "" {
		title = "Heatmap"
	}
	drawHeader(dc, fc, th, title, opts.Subtitle)

	frame := fitPitch(marginX, headerHeight, w-2*marginX, h-headerHeight-2*marginX,
		geometry.PitchLengthM, geometry.PitchWidthM)
	drawFullPitch(dc, frame, th)

	if grid != nil {
		if overlay := buildHeatOverlay(grid, th); overlay != nil {
			x0, y0 := frame.at(0, 0)
			dc.DrawImageEx(overlay, gg.DrawImageOptions{
				X:             x0,
				Y:             y0,
				DstWidth:      frame.width(),
				DstHeight:     frame.height(),
				Interpolation: gg.InterpBilinear,
				Opacity:       heatOverlayOpacity,
			})
		}
	}

	setColor(dc, withAlpha(th.Text, 0.45))
	for _, e := range events {
		x, y := frame.fullPoint(e.StartX, e.StartY)
		dc.DrawCircle(x, y, heatDotRadius)
		dc.Fill()
	}
	return nil
}

// buildHeatOverlay rasterizes the grid at cell resolution. The surface
// blit scales and smooths it into pitch space, which is far cheaper than
// filling one path per cell.
func buildHeatOverlay(g *aggregate.Grid, th Theme) *gg.ImageBuf {
	buf, err := gg.NewImageBuf(g.W, g.H, gg.FormatRGBA8)
	if err != nil {
		return nil
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := g.Normalized(x, y)
			if v < heatVisibleFloor {
				continue
			}
			c := th.PrimaryDark.Lerp(th.Accent, v)
			_ = buf.SetRGBA(x, y,
				uint8(c.R*255), uint8(c.G*255), uint8(c.B*255), uint8(v*230))
		}
	}
	return buf
}
