package exporter

import "errors"

// Sentinel kinds for export pipeline errors.
var (
	ErrJobNotFound = errors.New("export job not found")
	ErrQueueFull   = errors.New("export queue full")
)
