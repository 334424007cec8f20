package samplematch

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/domain/xg"
	"github.com/rondolab/rondo/pkg/logger"
)

// Team numbers used by the generated match.
const (
	homeTeam = 1
	awayTeam = 2
)

// Event mix weights in percent, roughly matching what a tagger produces
// over a full match. Every playup also emits its received pair member.
const (
	weightPass   = 50
	weightTackle = 14
	weightShot   = 12
	weightCross  = 8
	weightPlayup = 8
)

// matchSeconds spreads the generated events over a regulation match.
const matchSeconds = 90 * 60.0

// Spatial cluster constants in the attacking frame (toward x=100), all
// full-pitch percentages.
const (
	midfieldX       = 52.0
	midfieldSpreadX = 16.0
	midfieldSpreadY = 22.0
	passGain        = 12.0
	passSpread      = 8.0
	defenseX        = 32.0
	defenseSpreadX  = 14.0
	defenseSpreadY  = 25.0
	shotX           = 86.0
	shotSpreadX     = 7.0
	shotSpreadY     = 12.0
	goalLineX       = 99.0
	goalLineSpread  = 1.5
	goalMouthSpread = 4.0
	crossX          = 80.0
	crossSpreadX    = 8.0
	wideLaneY       = 8.0
	wideLaneSpread  = 5.0
	boxX            = 92.0
	boxSpreadX      = 4.0
	boxSpreadY      = 10.0
	playupX         = 40.0
	playupSpreadX   = 10.0
	playupSpreadY   = 20.0
	playupGain      = 25.0
	playupTargetY   = 18.0
	receiveDelay    = 2.0
	drillOriginMean = 30.0
	drillOriginDev  = 8.0
	drillSide       = 25.0
	centreY         = 50.0
)

// Rosters of the two sides. Team labels stay numeric on purpose: tagging
// clients send numbers and the aggregates must treat "1" and 1 as the
// same side.
var (
	homeRoster = []string{"Anders", "Bakary", "Carles", "Dries", "Emil", "Farid", "Goran", "Hugo", "Ivan", "Jonas"}
	awayRoster = []string{"Karim", "Luka", "Marco", "Nico", "Otto", "Pavel", "Quincy", "Rafa", "Stefan", "Timo"}
)

// generator produces one synthetic match deterministically from a seed.
type generator struct {
	rnd       *rand.Rand
	model     *xg.Model
	clock     float64
	meanStep  float64
	playerIDs map[string]string
}

func newGenerator(seed int64, numEvents int) *generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &generator{
		rnd:       rand.New(rand.NewSource(seed)), //nolint:gosec // seeded sample data, reproducibility matters here
		model:     xg.New(),
		meanStep:  matchSeconds / float64(max(numEvents, 1)),
		playerIDs: make(map[string]string),
	}
}

// GenerateMatch produces a deterministic synthetic match. Playups emit
// both pair members, so the returned slice can exceed the requested count
// by the number of pairs.
func GenerateMatch(ctx context.Context, config *Config, stats *Stats) ([]SampleEvent, error) {
	logger.Get().Info(ctx, "generating synthetic match",
		logger.Int("events", config.NumEvents),
		logger.Any("seed", config.Seed))

	g := newGenerator(config.Seed, config.NumEvents)

	events := make([]SampleEvent, 0, config.NumEvents+config.NumEvents/weightPlayup)
	for len(events) < config.NumEvents {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("match generation cancelled: %w", ctx.Err())
		default:
		}
		events = append(events, g.next(stats)...)
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated synthetic match",
		logger.Int("count", len(events)),
		logger.Int("goals", stats.GoalsGenerated),
		logger.Int("pairs", stats.PairsGenerated),
		logger.Int("drills", stats.DrillEvents))

	return events, nil
}

// next emits the next event, or two for a playup pair.
func (g *generator) next(stats *Stats) []SampleEvent {
	team := homeTeam
	if g.rnd.Intn(2) == 1 {
		team = awayTeam
	}

	var out []SampleEvent
	roll := g.rnd.Intn(PercentageMultiplier)
	switch {
	case roll < weightPass:
		out = []SampleEvent{g.pass(team)}
	case roll < weightPass+weightTackle:
		out = []SampleEvent{g.tackle(team)}
	case roll < weightPass+weightTackle+weightShot:
		out = []SampleEvent{g.shot(team, stats)}
	case roll < weightPass+weightTackle+weightShot+weightCross:
		out = []SampleEvent{g.cross(team)}
	case roll < weightPass+weightTackle+weightShot+weightCross+weightPlayup:
		stats.PairsGenerated++
		out = g.playup(team)
	default:
		stats.DrillEvents++
		out = []SampleEvent{g.drill(team)}
	}

	for i := range out {
		out[i].Event.Normalize()
	}
	return out
}

// tick advances the match clock with Poisson-like spacing.
func (g *generator) tick() float64 {
	g.clock += g.rnd.ExpFloat64() * g.meanStep
	return g.clock
}

// gauss draws from a normal distribution around mean.
func (g *generator) gauss(mean, spread float64) float64 {
	return mean + g.rnd.NormFloat64()*spread
}

// newID derives a UUID from the seeded source so the whole match, ids
// included, reproduces run to run.
func (g *generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func (g *generator) player(team int) (string, string) {
	roster := homeRoster
	if team == awayTeam {
		roster = awayRoster
	}
	name := roster[g.rnd.Intn(len(roster))]
	id, ok := g.playerIDs[name]
	if !ok {
		id = g.newID()
		g.playerIDs[name] = id
	}
	return name, id
}

func (g *generator) base(team int, typ string) event.MatchEvent {
	name, id := g.player(team)
	return event.MatchEvent{
		VideoSeconds: g.tick(),
		PlayerID:     id,
		PlayerName:   name,
		Team:         types.NewTeamLabel(team),
		Type:         typ,
	}
}

// canon maps a position expressed in the attacking frame (toward x=100)
// onto the raw pitch for the given side. The away side plays leftward, so
// its raw coordinates are the 180 degree rotation.
func canon(team int, x, y float64) types.Position {
	if team == awayTeam {
		x = geometry.PctMax - x
		y = geometry.PctMax - y
	}
	return types.Position{X: geometry.ClampPct(x), Y: geometry.ClampPct(y)}
}

func (g *generator) pass(team int) SampleEvent {
	e := g.base(team, event.TypePass)
	sx, sy := g.gauss(midfieldX, midfieldSpreadX), g.gauss(centreY, midfieldSpreadY)
	e.Start = canon(team, sx, sy)
	end := canon(team, sx+g.gauss(passGain, passSpread), sy+g.gauss(0, passSpread))
	e.End = &end
	return SampleEvent{Event: e}
}

func (g *generator) tackle(team int) SampleEvent {
	e := g.base(team, event.TypeTackle)
	e.Start = canon(team, g.gauss(defenseX, defenseSpreadX), g.gauss(centreY, defenseSpreadY))
	return SampleEvent{Event: e}
}

// shot places an attempt near the goal and converts it to a goal with
// probability equal to its modelled xG, so high-quality chances score
// more often in the sample data too.
func (g *generator) shot(team int, stats *Stats) SampleEvent {
	e := g.base(team, event.TypeShot)
	sx := geometry.ClampPct(g.gauss(shotX, shotSpreadX))
	sy := geometry.ClampPct(g.gauss(centreY, shotSpreadY))
	if g.rnd.Float64() < g.model.PredictAt(sx, sy) {
		e.Type = event.TypeGoal
		stats.GoalsGenerated++
	}
	e.Start = canon(team, sx, sy)
	end := canon(team, g.gauss(goalLineX, goalLineSpread), g.gauss(centreY, goalMouthSpread))
	e.End = &end
	return SampleEvent{Event: e}
}

func (g *generator) cross(team int) SampleEvent {
	e := g.base(team, "Cross")
	sy := g.gauss(wideLaneY, wideLaneSpread)
	if g.rnd.Intn(2) == 1 {
		sy = geometry.PctMax - sy
	}
	e.Start = canon(team, g.gauss(crossX, crossSpreadX), sy)
	end := canon(team, g.gauss(boxX, boxSpreadX), g.gauss(centreY, boxSpreadY))
	e.End = &end
	return SampleEvent{Event: e}
}

// playup emits the deep pass and its received pair member a couple of
// seconds later, linked by a shared pair id and carried by two different
// players.
func (g *generator) playup(team int) []SampleEvent {
	pair := g.newID()

	pass := g.base(team, event.TypePlayup)
	sx, sy := g.gauss(playupX, playupSpreadX), g.gauss(centreY, playupSpreadY)
	pass.Start = canon(team, sx, sy)
	target := canon(team, sx+g.gauss(playupGain, passSpread), g.gauss(centreY, playupTargetY))
	pass.End = &target
	pass.PairID = pair

	recv := g.base(team, event.TypePlayupReceived)
	for recv.PlayerName == pass.PlayerName {
		recv.PlayerName, recv.PlayerID = g.player(team)
	}
	recv.VideoSeconds = pass.VideoSeconds + receiveDelay + g.rnd.Float64()
	recv.Start = target
	recv.PairID = pair

	return []SampleEvent{{Event: pass}, {Event: recv}}
}

// drill tags a pass inside a zoomed rondo area. The stored form carries
// canonical coordinates plus the raw drill-local start, exactly as the
// service would persist it; the drill-local view is kept alongside so
// submission can replay the original request.
func (g *generator) drill(team int) SampleEvent {
	e := g.base(team, event.TypePass)
	e.DrillType = "rondo"

	area := &geometry.DrillArea{
		OriginX: geometry.Clamp(g.gauss(drillOriginMean, drillOriginDev), 0, geometry.PctMax-drillSide),
		OriginY: geometry.Clamp(g.gauss(drillOriginMean, drillOriginDev), 0, geometry.PctMax-drillSide),
		Width:   drillSide,
		Height:  drillSide,
	}

	local := types.Position{X: g.rnd.Float64() * geometry.PctMax, Y: g.rnd.Float64() * geometry.PctMax}
	localEnd := types.Position{X: g.rnd.Float64() * geometry.PctMax, Y: g.rnd.Float64() * geometry.PctMax}

	e.DrillStart = &local
	e.Start = geometry.ToCanonical(local, area)
	end := geometry.ToCanonical(localEnd, area)
	e.End = &end

	return SampleEvent{Event: e, DrillArea: area, LocalEnd: &localEnd}
}
