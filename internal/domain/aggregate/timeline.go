package aggregate

import (
	"sort"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/types"
)

// Timeline extension constants.
const (
	defaultHalfLengthMinutes = 45
	minTimelineMinutes       = 5
)

// TimelinePoint is one step of a team's cumulative xG series.
type TimelinePoint struct {
	Minute     float64 `json:"minute"`
	Cumulative float64 `json:"cumulative"`
	XG         float64 `json:"xg,omitempty"`
	IsGoal     bool    `json:"is_goal,omitempty"`
	PlayerName string  `json:"player_name,omitempty"`
}

// TimelineSeries is the cumulative series of one team.
type TimelineSeries struct {
	Team   types.TeamLabel `json:"team"`
	Points []TimelinePoint `json:"points"`
}

// Total returns the final cumulative value of the series.
func (s TimelineSeries) Total() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Cumulative
}

// TimelineOption adjusts series extension.
type TimelineOption func(*timelineConfig)

type timelineConfig struct {
	liveMinute int
	halfLength int
}

// WithLiveMinute extends the series to the current match minute when a
// match is still in progress.
func WithLiveMinute(minute int) TimelineOption {
	return func(c *timelineConfig) {
		if minute > 0 {
			c.liveMinute = minute
		}
	}
}

// WithHalfLength overrides the nominal half length, mainly for drills and
// small-sided games.
func WithHalfLength(minutes int) TimelineOption {
	return func(c *timelineConfig) {
		if minutes > 0 {
			c.halfLength = minutes
		}
	}
}

// CumulativeXG partitions shot events by team and walks each partition in
// minute order, accumulating xG into a non-decreasing running total. Each
// series starts with a (0,0) anchor and ends with a flat terminal point
// so the rendered line covers the whole elapsed match.
func CumulativeXG(events []types.GraphicEvent, opts ...TimelineOption) []TimelineSeries {
	cfg := timelineConfig{halfLength: defaultHalfLengthMinutes}
	for _, opt := range opts {
		opt(&cfg)
	}

	shots := make([]types.GraphicEvent, 0, len(events))
	for _, e := range events {
		if event.IsShotLike(e.Type) || e.XG > 0 {
			shots = append(shots, e)
		}
	}

	series := make([]TimelineSeries, 0, 2)
	for _, team := range Teams(shots) {
		var teamShots []types.GraphicEvent
		for _, e := range shots {
			if e.Team.Matches(team) {
				teamShots = append(teamShots, e)
			}
		}
		sort.SliceStable(teamShots, func(i, j int) bool {
			return teamShots[i].Minute < teamShots[j].Minute
		})

		points := make([]TimelinePoint, 0, len(teamShots)+2)
		points = append(points, TimelinePoint{})

		total := 0.0
		lastMinute := 0
		for _, s := range teamShots {
			total += s.XG
			if s.Minute > lastMinute {
				lastMinute = s.Minute
			}
			points = append(points, TimelinePoint{
				Minute:     float64(s.Minute),
				Cumulative: total,
				XG:         s.XG,
				IsGoal:     s.IsGoal,
				PlayerName: s.PlayerName,
			})
		}

		terminal := terminalMinute(cfg, lastMinute)
		points = append(points, TimelinePoint{Minute: float64(terminal), Cumulative: total})

		series = append(series, TimelineSeries{Team: team, Points: points})
	}
	return series
}

// terminalMinute picks the furthest relevant minute: the live clock, the
// last event, the nominal half length, or a small floor for near-empty
// inputs.
func terminalMinute(cfg timelineConfig, lastEventMinute int) int {
	terminal := minTimelineMinutes
	if cfg.liveMinute > terminal {
		terminal = cfg.liveMinute
	}
	if lastEventMinute > terminal {
		terminal = lastEventMinute
	}
	if cfg.halfLength > terminal {
		terminal = cfg.halfLength
	}
	return terminal
}
