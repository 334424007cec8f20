package samplematch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rondolab/rondo/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sample_match_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the sample match tool.
func ShowHelp() {
	os.Stdout.WriteString(`Rondo Sample Match Tool
=======================

Generates a synthetic but plausible match: weighted event mix, clustered
positions, paired playups and goals drawn from each shot's xG. The match
can seed a running service, be written as interchange CSV, or be rendered
straight to PNGs without a service at all.

Usage:
  go run cmd/sample-match/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -events int
        Number of events to generate (default 600)
  -seed int
        Generator seed; the same seed reproduces the same match,
        0 derives one from the clock (default 1)
  -workers int
        Number of concurrent submit workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -csv string
        Write the generated match as interchange CSV to this path
  -render string
        Render all five graphics as PNGs into this directory
  -submit
        Submit the match to the service and verify its aggregates
        (default true)
  -log string
        Log file for tool output (default: sample_match_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed a locally running service and verify the aggregates
  go run cmd/sample-match/main.go

  # Reproduce a specific match and keep the CSV
  go run cmd/sample-match/main.go -seed 42 -csv match.csv -submit=false

  # Render the graphics offline, no service needed
  go run cmd/sample-match/main.go -render out/ -submit=false

  # Bigger match, more workers
  go run cmd/sample-match/main.go -events 2000 -workers 16
`)
}
