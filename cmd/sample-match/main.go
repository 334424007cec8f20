package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/rondolab/rondo/internal/samplematch"
)

// Default configuration constants.
const (
	defaultNumEvents   = 600
	defaultSeed        = 1
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultToolTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents = flag.Int("events", defaultNumEvents, "Number of events to generate")
		seed      = flag.Int64("seed", defaultSeed, "Generator seed; 0 derives one from the clock")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submit workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		csvFile   = flag.String("csv", "", "Write the generated match as interchange CSV to this path")
		renderDir = flag.String("render", "", "Render all five graphics as PNGs into this directory")
		submit    = flag.Bool("submit", true, "Submit the match to the service and verify its aggregates")
		logFile   = flag.String("log", "", "Log file for tool output (default: sample_match_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		samplematch.ShowHelp()
		return
	}

	// Setup logging
	if err := samplematch.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultToolTimeout)
	defer cancel()

	// Create tool configuration
	config := &samplematch.Config{
		BaseURL:   *baseURL,
		NumEvents: *numEvents,
		Seed:      *seed,
		Workers:   *workers,
		Timeout:   *timeout,
		CSVFile:   *csvFile,
		RenderDir: *renderDir,
		Submit:    *submit,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run the tool
	if err := samplematch.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Sample match tool failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
