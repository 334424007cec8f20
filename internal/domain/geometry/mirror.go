package geometry

import (
	"github.com/rondolab/rondo/internal/domain/types"
)

// Attacking direction is canonicalized toward x=100. Events whose end
// location sits in the left half were tagged against a team attacking the
// other way and get rotated 180 degrees about the pitch centre.
const leftwardEndThreshold = 50.0

// Mirror rotates an event half a turn around the pitch centre:
// x' = 100-x, y' = 100-y for start and, when present, end. Applying it
// twice restores the original event.
func Mirror(e types.GraphicEvent) types.GraphicEvent {
	e.StartX = PctMax - ClampPct(e.StartX)
	e.StartY = PctMax - ClampPct(e.StartY)
	if e.HasEnd() {
		e.EndX = PctMax - ClampPct(e.EndX)
		e.EndY = PctMax - ClampPct(e.EndY)
	}
	return e
}

// Leftward reports whether the event's end location marks an attack on
// the left goal. Events without an end location never qualify on their
// own; they follow their pair, if any.
func Leftward(e types.GraphicEvent) bool {
	return e.HasEnd() && e.EndX < leftwardEndThreshold
}

// MirrorIfLeftward canonicalizes a single event's attacking direction.
// Already-rightward events pass through untouched, so the operation is
// idempotent.
func MirrorIfLeftward(e types.GraphicEvent) types.GraphicEvent {
	if !Leftward(e) {
		return e
	}
	return Mirror(e)
}

// MirrorAll canonicalizes a slice of events and keeps explicitly paired
// records consistent: when either member of a PairID pair qualifies, both
// members mirror, including a pair member without its own end location.
// The input slice is not modified.
func MirrorAll(events []types.GraphicEvent) []types.GraphicEvent {
	pairLeftward := make(map[string]bool)
	for _, e := range events {
		if e.PairID != "" && Leftward(e) {
			pairLeftward[e.PairID] = true
		}
	}

	out := make([]types.GraphicEvent, len(events))
	for i, e := range events {
		switch {
		case Leftward(e):
			out[i] = Mirror(e)
		case e.PairID != "" && pairLeftward[e.PairID]:
			out[i] = Mirror(e)
		default:
			out[i] = e
		}
	}
	return out
}
