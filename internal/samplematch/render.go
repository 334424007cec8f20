package samplematch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/domain/xg"
	"github.com/rondolab/rondo/internal/render"
	"github.com/rondolab/rondo/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// renderGraphics draws all five graphic kinds from the generated match
// into config.RenderDir, one PNG per kind, without touching the service.
func renderGraphics(ctx context.Context, config *Config, events []SampleEvent, stats *Stats) error {
	log.Printf("Rendering %d graphics into %s...", len(types.Kinds()), config.RenderDir)

	if err := os.MkdirAll(config.RenderDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create render directory: %w", err)
	}

	prepared := aggregate.Prepare(projectAll(events), xg.New())
	opts := render.Options{
		TeamName: "Sample Match",
		Subtitle: time.Now().Format("2006-01-02"),
		DPR:      1,
	}

	for _, kind := range types.Kinds() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("rendering cancelled: %w", ctx.Err())
		default:
		}

		start := time.Now()
		path := filepath.Join(config.RenderDir, kind.String()+".png")
		if err := renderOne(kind, prepared, opts, path); err != nil {
			return fmt.Errorf("failed to render %s: %w", kind, err)
		}
		stats.GraphicsRendered++

		logger.Get().Info(ctx, "rendered graphic",
			logger.String("kind", kind.String()),
			logger.String("path", path),
			logger.Duration("took", time.Since(start)))
	}

	log.Printf("Rendered %d graphics", stats.GraphicsRendered)
	return nil
}

// renderOne draws a single kind onto a fresh surface and saves it.
func renderOne(kind types.GraphicKind, prepared []types.GraphicEvent, opts render.Options, path string) error {
	dc := render.NewSurface(kind, opts.DPR)

	var err error
	switch kind {
	case types.GraphicPassMap:
		err = render.RenderPassMap(dc, prepared, opts)
	case types.GraphicShotMap:
		err = render.RenderShotMap(dc, prepared, opts)
	case types.GraphicHeatmap:
		grid := aggregate.BuildDensityGrid(prepared)
		err = render.RenderHeatmap(dc, prepared, grid, opts)
	case types.GraphicTimeline:
		series := aggregate.CumulativeXG(prepared)
		err = render.RenderTimeline(dc, series, opts)
	case types.GraphicReport:
		err = render.RenderReport(dc, prepared, opts)
	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownGraphicKind, kind)
	}
	if err != nil {
		return err
	}

	return dc.SavePNG(path)
}

// projectAll strips the generated events down to their aggregation shape.
func projectAll(events []SampleEvent) []types.GraphicEvent {
	stored := make([]event.MatchEvent, len(events))
	for i := range events {
		stored[i] = events[i].Event
	}
	return event.ProjectAll(stored)
}
