// Package aggregate turns flat event lists into the renderable statistics
// consumed by the graphics: counts, cumulative xG series, density grids
// and top-performer tables. Every function is pure; re-running with the
// same input yields the same output.
package aggregate

import (
	"sort"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/domain/xg"
)

// Default table shape constants.
const (
	defaultBreakdownTypes = 4
	maxLeaders            = 10
)

// Prepare canonicalizes attacking direction and enriches shot-like events
// with their xG, in that order. Renderers and aggregates share this one
// pass so a mirrored shot is never scored from its raw coordinates.
func Prepare(events []types.GraphicEvent, model *xg.Model) []types.GraphicEvent {
	return EnrichShots(geometry.MirrorAll(events), model)
}

// EnrichShots fills XG and IsGoal on shot-like events. Input coordinates
// are assumed canonical. The input slice is not modified.
func EnrichShots(events []types.GraphicEvent, model *xg.Model) []types.GraphicEvent {
	out := make([]types.GraphicEvent, len(events))
	copy(out, events)
	for i := range out {
		if !event.IsShotLike(out[i].Type) {
			continue
		}
		out[i].XG = model.PredictAt(out[i].StartX, out[i].StartY)
		out[i].IsGoal = out[i].Type == event.TypeGoal
	}
	return out
}

// CountByType tallies events per type. A zero team label counts all
// teams; a type that never occurs is simply absent, which reads as 0.
func CountByType(events []types.GraphicEvent, team types.TeamLabel) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		if !team.IsZero() && !e.Team.Matches(team) {
			continue
		}
		counts[e.Type]++
	}
	return counts
}

// Teams returns the distinct team labels in first-seen order. Tagging
// clients produce "1" and "2"; imported files may carry anything.
func Teams(events []types.GraphicEvent) []types.TeamLabel {
	seen := make(map[types.TeamLabel]bool)
	var out []types.TeamLabel
	for _, e := range events {
		label := types.NewTeamLabel(e.Team.String())
		if label.IsZero() || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// Leader is one row of the top-performer table.
type Leader struct {
	PlayerName string          `json:"player_name"`
	Team       types.TeamLabel `json:"team"`
	Total      int             `json:"total"`
	Breakdown  map[string]int  `json:"breakdown"`
}

// TopTypes returns the n most frequent event types over the whole input,
// most frequent first, names breaking ties.
func TopTypes(events []types.GraphicEvent, n int) []string {
	if n <= 0 {
		n = defaultBreakdownTypes
	}
	freq := CountByType(events, "")

	names := make([]string, 0, len(freq))
	for name := range freq {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if freq[names[i]] != freq[names[j]] {
			return freq[names[i]] > freq[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > n {
		names = names[:n]
	}
	return names
}

// TopPerformers groups events by player and team, breaks totals down by
// the globally most frequent types, and returns at most ten rows sorted
// by total descending with names breaking ties.
func TopPerformers(events []types.GraphicEvent, breakdownN int) []Leader {
	topTypes := TopTypes(events, breakdownN)
	inTop := make(map[string]bool, len(topTypes))
	for _, t := range topTypes {
		inTop[t] = true
	}

	type key struct {
		player string
		team   types.TeamLabel
	}
	totals := make(map[key]*Leader)
	var order []key

	for _, e := range events {
		if e.PlayerName == "" {
			continue
		}
		k := key{player: e.PlayerName, team: types.NewTeamLabel(e.Team.String())}
		row, ok := totals[k]
		if !ok {
			row = &Leader{PlayerName: k.player, Team: k.team, Breakdown: make(map[string]int)}
			totals[k] = row
			order = append(order, k)
		}
		row.Total++
		if inTop[e.Type] {
			row.Breakdown[e.Type]++
		}
	}

	leaders := make([]Leader, 0, len(order))
	for _, k := range order {
		leaders = append(leaders, *totals[k])
	}
	sort.SliceStable(leaders, func(i, j int) bool {
		if leaders[i].Total != leaders[j].Total {
			return leaders[i].Total > leaders[j].Total
		}
		if leaders[i].PlayerName != leaders[j].PlayerName {
			return leaders[i].PlayerName < leaders[j].PlayerName
		}
		return leaders[i].Team < leaders[j].Team
	})

	if len(leaders) > maxLeaders {
		leaders = leaders[:maxLeaders]
	}
	return leaders
}
