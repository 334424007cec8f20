// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx, ...) to build a Config with defaults.
// - Layer file and environment overrides in Load, never at use sites.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rondolab/rondo/internal/domain/xg"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ExportQueueSize bounds the in-memory render job queue.
	ExportQueueSize int `koanf:"export_queue_size"`

	// ExportWorkers sets the number of render workers. Rendering is CPU
	// bound, so the default tracks the core count.
	ExportWorkers int `koanf:"export_workers"`

	// DefaultDPR scales exported surfaces when a job does not say.
	DefaultDPR float64 `koanf:"default_dpr"`

	// PrimaryHex seeds the render palette when a job has no team colour.
	PrimaryHex string `koanf:"primary_hex"`

	// HalfLengthMinutes is the nominal half length used to extend xG
	// timelines. Shorten it for drills and small-sided games.
	HalfLengthMinutes int `koanf:"half_length_minutes"`

	// DensitySigma is the heatmap kernel bandwidth in grid cells.
	DensitySigma float64 `koanf:"density_sigma"`

	// DensityGridW and DensityGridH set the heatmap grid resolution.
	DensityGridW int `koanf:"density_grid_w"`
	DensityGridH int `koanf:"density_grid_h"`

	// XG overrides the shot model parameters, e.g. after a re-fit.
	XG xg.Params `koanf:"xg"`
}

// New creates a Config using defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use and
// is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":9080",
		ExportQueueSize:   1024,
		ExportWorkers:     runtime.NumCPU(),
		DefaultDPR:        1,
		PrimaryHex:        "",
		HalfLengthMinutes: 45,
		DensitySigma:      24,
		DensityGridW:      480,
		DensityGridH:      320,
		XG:                xg.DefaultParams(),
	}
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ExportQueueSize < 1:
		return fmt.Errorf("%w: export_queue_size must be positive", ErrInvalidConfig)
	case c.ExportWorkers < 1:
		return fmt.Errorf("%w: export_workers must be positive", ErrInvalidConfig)
	case c.DefaultDPR <= 0:
		return fmt.Errorf("%w: default_dpr must be positive", ErrInvalidConfig)
	case c.HalfLengthMinutes < 1:
		return fmt.Errorf("%w: half_length_minutes must be positive", ErrInvalidConfig)
	case c.DensitySigma <= 0:
		return fmt.Errorf("%w: density_sigma must be positive", ErrInvalidConfig)
	case c.DensityGridW < 1 || c.DensityGridH < 1:
		return fmt.Errorf("%w: density grid must be at least 1x1", ErrInvalidConfig)
	}
	return nil
}
