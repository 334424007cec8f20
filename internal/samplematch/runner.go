package samplematch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rondolab/rondo/internal/adapters/eventcsv"
	"github.com/rondolab/rondo/pkg/logger"
)

// Run generates a synthetic match and feeds it wherever the config
// points: an interchange CSV, locally rendered PNGs, a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting sample match tool",
		logger.String("baseURL", config.BaseURL),
		logger.Int("events", config.NumEvents),
		logger.Any("seed", config.Seed),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("csv", config.CSVFile),
		logger.String("renderDir", config.RenderDir),
		logger.Any("submit", config.Submit))

	// Step 1: Generate the match
	events, err := GenerateMatch(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("match generation failed: %w", err)
	}

	// Step 2: Write the interchange CSV when asked
	if config.CSVFile != "" {
		if err := saveCSV(ctx, config, events); err != nil {
			return fmt.Errorf("csv export failed: %w", err)
		}
	}

	// Step 3: Render the graphics locally when asked
	if config.RenderDir != "" {
		if err := renderGraphics(ctx, config, events, stats); err != nil {
			return fmt.Errorf("rendering failed: %w", err)
		}
	}

	// Step 4: Seed the service and verify its aggregates
	if config.Submit {
		if err := checkServiceHealth(ctx, config); err != nil {
			return fmt.Errorf("service health check failed: %w", err)
		}

		if err := submitEvents(ctx, config, events, stats); err != nil {
			return fmt.Errorf("event submission failed: %w", err)
		}

		logger.Get().Info(ctx, "waiting for the service to settle")
		time.Sleep(SettleDelay)

		if err := verifyAggregates(ctx, config, events, stats); err != nil {
			return fmt.Errorf("aggregate verification failed: %w", err)
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "sample match tool completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveCSV writes the generated match in the interchange format.
func saveCSV(ctx context.Context, config *Config, events []SampleEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to save")
	}

	dir := filepath.Dir(config.CSVFile)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.CSVFile)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if err := eventcsv.Write(file, projectAll(events)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	logger.Get().Info(ctx, "match saved as csv",
		logger.String("filename", config.CSVFile),
		logger.Int("events", len(events)))
	return nil
}

// displayFinalStats prints the final tool statistics.
func displayFinalStats(stats *Stats) {
	var successRate, eventsPerSecond float64

	if stats.EventsSubmitted > 0 {
		successRate = float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 && stats.EventsSubmitted > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("goalsGenerated", stats.GoalsGenerated),
		logger.Int("pairsGenerated", stats.PairsGenerated),
		logger.Int("drillEvents", stats.DrillEvents),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsSuccessful", stats.EventsSuccessful),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("graphicsRendered", stats.GraphicsRendered),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
