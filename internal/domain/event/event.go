// Package event contains the match event records passed between layers.
package event

import (
	"math"
	"strings"
	"time"

	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
)

// Well-known event type names used by the aggregation rules. The type
// field itself is free-form; taggers may invent new ones at will.
const (
	TypePass           = "Pass"
	TypeShot           = "Shot"
	TypeGoal           = "Goal"
	TypePlayup         = "Playup"
	TypePlayupReceived = "Playup Received"
	TypeTackle         = "Tackle"
)

// IsShotLike reports whether an event type feeds the xG pipeline.
func IsShotLike(eventType string) bool {
	return eventType == TypeShot || eventType == TypeGoal
}

// MatchEvent is a tagged occurrence in the match video. Events are
// immutable once stored; the only permitted mutation is an explicit
// timestamp correction through the store.
type MatchEvent struct {
	ID           string          `json:"id"`
	VideoSeconds float64         `json:"video_seconds"`
	PlayerID     string          `json:"player_id,omitempty"`
	PlayerName   string          `json:"player_name"`
	Team         types.TeamLabel `json:"team"`
	Type         string          `json:"type"`
	Start        types.Position  `json:"start"`
	End          *types.Position `json:"end,omitempty"`
	DrillStart   *types.Position `json:"drill_start,omitempty"`
	DrillType    string          `json:"drill_type,omitempty"`
	PairID       string          `json:"pair_id,omitempty"`
	Minute       *int            `json:"minute,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Normalize trims free-text fields and clamps every position into range.
// Tagging clients clamp too, but stored coordinates must never leave
// [0,100] regardless of the producer.
func (e *MatchEvent) Normalize() {
	e.Type = strings.TrimSpace(e.Type)
	e.PlayerName = strings.TrimSpace(e.PlayerName)
	e.DrillType = strings.TrimSpace(e.DrillType)

	e.Start = geometry.ClampPos(e.Start)
	if e.End != nil {
		end := geometry.ClampPos(*e.End)
		e.End = &end
	}
	if e.DrillStart != nil {
		ds := geometry.ClampPos(*e.DrillStart)
		e.DrillStart = &ds
	}
	if math.IsNaN(e.VideoSeconds) || e.VideoSeconds < 0 {
		e.VideoSeconds = 0
	}
	if e.Minute != nil && *e.Minute < 0 {
		e.Minute = nil
	}
}

// Validate checks the fields a tagged event must carry.
func (e *MatchEvent) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return ErrMissingType
	}
	if e.Team.IsZero() {
		return ErrMissingTeam
	}
	if strings.TrimSpace(e.PlayerName) == "" {
		return ErrMissingPlayer
	}
	if math.IsNaN(e.VideoSeconds) || e.VideoSeconds < 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// MinuteOrDerived returns the explicit match minute when one was tagged,
// otherwise the minute implied by the video timestamp.
func (e *MatchEvent) MinuteOrDerived() int {
	if e.Minute != nil {
		return *e.Minute
	}
	return int(e.VideoSeconds / 60)
}

// ToGraphic projects the stored event onto the flat aggregation shape
// shared with CSV imports. XG and IsGoal stay zero here; enrichment fills
// them once mirroring has canonicalized the attacking direction.
func (e *MatchEvent) ToGraphic() types.GraphicEvent {
	g := types.GraphicEvent{
		Type:       e.Type,
		PlayerName: e.PlayerName,
		Team:       e.Team,
		StartX:     e.Start.X,
		StartY:     e.Start.Y,
		Minute:     e.MinuteOrDerived(),
		PairID:     e.PairID,
	}
	if e.End != nil {
		g.EndX = e.End.X
		g.EndY = e.End.Y
	}
	return g
}

// ProjectAll maps stored events onto graphic events, preserving order.
func ProjectAll(events []MatchEvent) []types.GraphicEvent {
	out := make([]types.GraphicEvent, len(events))
	for i := range events {
		out[i] = events[i].ToGraphic()
	}
	return out
}
