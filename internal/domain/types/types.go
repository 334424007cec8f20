// Package types contains common types used across the application
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TeamLabel identifies a team. Tagging clients send numeric ids (1, 2)
// while imported CSV files carry arbitrary strings ("1", "Home"), so the
// label accepts both and normalizes numerics to their shortest form.
type TeamLabel string

// NewTeamLabel builds a label from any raw value.
func NewTeamLabel(v interface{}) TeamLabel {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return TeamLabel(t).normalize()
	case float64:
		return TeamLabel(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return TeamLabel(strconv.Itoa(t))
	default:
		return TeamLabel(fmt.Sprintf("%v", t)).normalize()
	}
}

func (t TeamLabel) normalize() TeamLabel {
	s := strings.TrimSpace(string(t))
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return TeamLabel(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return TeamLabel(s)
}

// String returns the normalized label text.
func (t TeamLabel) String() string { return string(t) }

// IsZero reports whether no team was given.
func (t TeamLabel) IsZero() bool { return strings.TrimSpace(string(t)) == "" }

// Matches compares two labels after normalization, so 1, "1" and "1.0"
// all refer to the same team.
func (t TeamLabel) Matches(other TeamLabel) bool {
	return t.normalize() == other.normalize()
}

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (t *TeamLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TeamLabel(s).normalize()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*t = TeamLabel(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	return fmt.Errorf("team label must be a string or number, got %s", string(data))
}

// MarshalJSON emits the normalized string form.
func (t TeamLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t.normalize()))
}

// Position is a percentage offset within a reference rectangle, nominally
// in [0,100] on both axes. Producers clamp; consumers clamp again.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphicEvent is the flat aggregation input shared by live events and
// imported CSV rows. End coordinates of 0 mean "no end location". XG and
// IsGoal are filled during aggregation for shot-like events.
type GraphicEvent struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"player_name"`
	Team       TeamLabel `json:"team"`
	StartX     float64   `json:"start_x"`
	StartY     float64   `json:"start_y"`
	EndX       float64   `json:"end_x"`
	EndY       float64   `json:"end_y"`
	Minute     int       `json:"minute"`
	XG         float64   `json:"xg,omitempty"`
	IsGoal     bool      `json:"is_goal,omitempty"`
	PairID     string    `json:"pair_id,omitempty"`
}

// HasEnd reports whether the event carries an end location. The CSV
// interchange format writes 0,0 for missing ends, so the origin corner is
// reserved as the sentinel.
func (e GraphicEvent) HasEnd() bool {
	return e.EndX != 0 || e.EndY != 0
}

// Start returns the start location as a Position.
func (e GraphicEvent) Start() Position { return Position{X: e.StartX, Y: e.StartY} }

// End returns the end location as a Position; only meaningful when HasEnd.
func (e GraphicEvent) End() Position { return Position{X: e.EndX, Y: e.EndY} }

// GraphicKind names one of the renderable graphic types.
type GraphicKind string

// ErrUnknownGraphicKind rejects kind strings outside Kinds().
var ErrUnknownGraphicKind = errors.New("unknown graphic kind")

// Supported graphic kinds.
const (
	GraphicPassMap  GraphicKind = "passmap"
	GraphicShotMap  GraphicKind = "shotmap"
	GraphicHeatmap  GraphicKind = "heatmap"
	GraphicTimeline GraphicKind = "timeline"
	GraphicReport   GraphicKind = "report"
)

// Kinds returns all supported graphic kinds in a stable order.
func Kinds() []GraphicKind {
	return []GraphicKind{GraphicPassMap, GraphicShotMap, GraphicHeatmap, GraphicTimeline, GraphicReport}
}

// ParseGraphicKind validates a kind string from a URL or job payload.
func ParseGraphicKind(s string) (GraphicKind, error) {
	k := GraphicKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGraphicKind, s)
}

// String returns the kind name.
func (k GraphicKind) String() string { return string(k) }
