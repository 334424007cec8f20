package samplematch

import (
	"time"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
)

// Config holds configuration for the sample match tool.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumEvents int           // Number of events to generate
	Seed      int64         // Generator seed; the same seed yields the same match
	Workers   int           // Number of concurrent submit workers
	Timeout   time.Duration // HTTP request timeout
	CSVFile   string        // Write the generated match as interchange CSV
	RenderDir string        // Render the five graphics as PNGs into this directory
	Submit    bool          // Submit the match to the service and verify aggregates
	LogFile   string        // Log file for tool output
	Verbose   bool          // Enable verbose logging
}

// SampleEvent carries a generated event in stored form together with the
// drill-local view a tagging client would have submitted. The stored form
// already holds canonical coordinates; submission replays the drill-local
// ones so the server performs the remap itself.
type SampleEvent struct {
	Event     event.MatchEvent
	DrillArea *geometry.DrillArea
	LocalEnd  *types.Position
}

// tagRequest mirrors the wire shape of POST /api/v1/events.
type tagRequest struct {
	VideoSeconds float64             `json:"video_seconds"`
	PlayerID     string              `json:"player_id,omitempty"`
	PlayerName   string              `json:"player_name"`
	Team         string              `json:"team"`
	Type         string              `json:"type"`
	Start        types.Position      `json:"start"`
	End          *types.Position     `json:"end,omitempty"`
	DrillArea    *geometry.DrillArea `json:"drill_area,omitempty"`
	DrillType    string              `json:"drill_type,omitempty"`
	PairID       string              `json:"pair_id,omitempty"`
}

// leaderEntry is one row of GET /api/v1/aggregates/leaders.
type leaderEntry struct {
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Total      int    `json:"total"`
}

// timelinePoint and timelineSeries mirror GET /api/v1/aggregates/timeline.
type timelinePoint struct {
	Minute     float64 `json:"minute"`
	Cumulative float64 `json:"cumulative"`
}

type timelineSeries struct {
	Team   string          `json:"team"`
	Points []timelinePoint `json:"points"`
}

// Stats holds tool statistics.
type Stats struct {
	EventsGenerated  int
	GoalsGenerated   int
	PairsGenerated   int
	DrillEvents      int
	EventsSubmitted  int
	EventsSuccessful int
	EventsFailed     int
	GraphicsRendered int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
