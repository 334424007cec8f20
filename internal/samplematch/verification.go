package samplematch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/domain/xg"
)

// Tolerance for comparing xG sums across the JSON round trip.
const xgTolerance = 1e-6

// verifyAggregates cross-checks the service aggregates against the same
// numbers computed locally from the generated match. Drift is reported
// as warnings: a store seeded on top of earlier events will legitimately
// count more than this run produced.
func verifyAggregates(ctx context.Context, config *Config, events []SampleEvent, stats *Stats) error {
	log.Println("Verifying aggregates...")

	client := newHTTPClient(config.Timeout)
	prepared := aggregate.Prepare(projectAll(events), xg.New())

	if err := verifyCounts(ctx, client, config, prepared); err != nil {
		return fmt.Errorf("counts verification failed: %w", err)
	}

	if err := verifyLeaders(ctx, client, config, prepared); err != nil {
		return fmt.Errorf("leaders verification failed: %w", err)
	}

	if err := verifyTimeline(ctx, client, config, prepared); err != nil {
		return fmt.Errorf("timeline verification failed: %w", err)
	}

	log.Println("Aggregate verification completed")
	return nil
}

// verifyCounts compares per-team counts by type with the local tallies.
func verifyCounts(ctx context.Context, client *HTTPClient, config *Config, prepared []types.GraphicEvent) error {
	resp, err := client.Get(ctx, config.BaseURL+"/api/v1/aggregates/counts")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var got map[string]map[string]int
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	drift := 0
	for _, team := range aggregate.Teams(prepared) {
		want := aggregate.CountByType(prepared, team)
		for typ, n := range want {
			if got[team.String()][typ] != n {
				drift++
				log.Printf("count drift: team %s %s: service %d, local %d",
					team, typ, got[team.String()][typ], n)
			}
		}
	}

	if drift > 0 {
		log.Printf("counts verified with %d drifting entries (pre-existing store contents?)", drift)
	} else {
		log.Println("counts verified")
	}
	return nil
}

// verifyLeaders checks ordering and compares the top row with the local
// top performer.
func verifyLeaders(ctx context.Context, client *HTTPClient, config *Config, prepared []types.GraphicEvent) error {
	resp, err := client.Get(ctx, config.BaseURL+"/api/v1/aggregates/leaders")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var got []leaderEntry
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(got) == 0 {
		return fmt.Errorf("empty leader table")
	}

	for i := 1; i < len(got); i++ {
		if got[i].Total > got[i-1].Total {
			return fmt.Errorf("leader table not sorted: row %d exceeds row %d", i, i-1)
		}
	}

	local := aggregate.TopPerformers(prepared, 0)
	if len(local) > 0 && (got[0].PlayerName != local[0].PlayerName || got[0].Total != local[0].Total) {
		log.Printf("leader drift: service has %s (%d), local has %s (%d)",
			got[0].PlayerName, got[0].Total, local[0].PlayerName, local[0].Total)
	} else {
		log.Printf("leaders verified: %s tops the table with %d events", got[0].PlayerName, got[0].Total)
	}
	return nil
}

// verifyTimeline checks monotonicity and compares final xG totals with
// the local series.
func verifyTimeline(ctx context.Context, client *HTTPClient, config *Config, prepared []types.GraphicEvent) error {
	resp, err := client.Get(ctx, config.BaseURL+"/api/v1/aggregates/timeline")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var got []timelineSeries
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for _, series := range got {
		for i := 1; i < len(series.Points); i++ {
			if series.Points[i].Cumulative < series.Points[i-1].Cumulative {
				return fmt.Errorf("timeline for team %s decreases at point %d", series.Team, i)
			}
		}
	}

	local := make(map[string]float64)
	for _, series := range aggregate.CumulativeXG(prepared) {
		local[series.Team.String()] = series.Total()
	}

	for _, series := range got {
		if len(series.Points) == 0 {
			continue
		}
		final := series.Points[len(series.Points)-1].Cumulative
		if want, ok := local[series.Team]; ok && math.Abs(final-want) > xgTolerance {
			log.Printf("timeline drift: team %s service xG %.3f, local %.3f", series.Team, final, want)
		}
	}

	log.Printf("timeline verified for %d teams", len(got))
	return nil
}
