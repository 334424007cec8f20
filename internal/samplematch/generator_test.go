package samplematch_test

import (
	"context"
	"testing"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/geometry"
	"github.com/rondolab/rondo/internal/samplematch"
	"github.com/rondolab/rondo/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func generate(t *testing.T, seed int64, numEvents int) ([]samplematch.SampleEvent, *samplematch.Stats) {
	t.Helper()

	config := &samplematch.Config{NumEvents: numEvents, Seed: seed}
	stats := &samplematch.Stats{}
	events, err := samplematch.GenerateMatch(context.Background(), config, stats)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return events, stats
}

func TestGenerateMatchDeterminism(t *testing.T) {
	Convey("Given a fixed seed", t, func() {
		Convey("When generating the match twice", func() {
			first, _ := generate(t, 42, 200)
			second, _ := generate(t, 42, 200)

			Convey("Then both runs produce the identical match, ids included", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When generating with a different seed", func() {
			first, _ := generate(t, 42, 200)
			other, _ := generate(t, 43, 200)

			Convey("Then the matches differ", func() {
				So(other, ShouldNotResemble, first)
			})
		})
	})
}

func TestGenerateMatchEvents(t *testing.T) {
	Convey("Given a generated match", t, func() {
		events, stats := generate(t, 7, 400)

		Convey("Then the requested count is met, overshooting by at most one pair member", func() {
			So(len(events), ShouldBeGreaterThanOrEqualTo, 400)
			So(len(events), ShouldBeLessThanOrEqualTo, 401)
			So(stats.EventsGenerated, ShouldEqual, len(events))
		})

		Convey("Then every event validates and stays on the pitch", func() {
			for _, ev := range events {
				So(ev.Event.Validate(), ShouldBeNil)
				So(ev.Event.VideoSeconds, ShouldBeGreaterThanOrEqualTo, 0)
				So(ev.Event.Start.X, ShouldBeBetweenOrEqual, 0, geometry.PctMax)
				So(ev.Event.Start.Y, ShouldBeBetweenOrEqual, 0, geometry.PctMax)
				if ev.Event.End != nil {
					So(ev.Event.End.X, ShouldBeBetweenOrEqual, 0, geometry.PctMax)
					So(ev.Event.End.Y, ShouldBeBetweenOrEqual, 0, geometry.PctMax)
				}
			}
		})

		Convey("Then goals only arise from shot attempts and carry a target", func() {
			goals := 0
			for _, ev := range events {
				if ev.Event.Type != event.TypeGoal {
					continue
				}
				goals++
				So(event.IsShotLike(ev.Event.Type), ShouldBeTrue)
				So(ev.Event.End, ShouldNotBeNil)
			}
			So(goals, ShouldEqual, stats.GoalsGenerated)
		})
	})
}

func TestGenerateMatchPairs(t *testing.T) {
	Convey("Given a generated match", t, func() {
		events, stats := generate(t, 11, 500)

		pairs := make(map[string][]event.MatchEvent)
		for _, ev := range events {
			if ev.Event.PairID != "" {
				pairs[ev.Event.PairID] = append(pairs[ev.Event.PairID], ev.Event)
			}
		}

		Convey("Then every playup pair shares an id across exactly two members", func() {
			So(len(pairs), ShouldEqual, stats.PairsGenerated)
			for _, pair := range pairs {
				So(len(pair), ShouldEqual, 2)
				So(pair[0].Type, ShouldEqual, event.TypePlayup)
				So(pair[1].Type, ShouldEqual, event.TypePlayupReceived)
			}
		})

		Convey("Then the receive follows the pass and belongs to another player", func() {
			for _, pair := range pairs {
				So(pair[1].VideoSeconds, ShouldBeGreaterThan, pair[0].VideoSeconds)
				So(pair[1].PlayerName, ShouldNotEqual, pair[0].PlayerName)
				So(pair[1].Team.Matches(pair[0].Team), ShouldBeTrue)
			}
		})
	})
}

func TestGenerateMatchDrills(t *testing.T) {
	Convey("Given a generated match", t, func() {
		events, stats := generate(t, 23, 500)

		Convey("Then every drill event carries both the stored and the drill-local form", func() {
			drills := 0
			for _, ev := range events {
				if ev.DrillArea == nil {
					continue
				}
				drills++

				So(ev.DrillArea.Valid(), ShouldBeTrue)
				So(ev.Event.DrillType, ShouldEqual, "rondo")
				So(ev.Event.DrillStart, ShouldNotBeNil)
				So(ev.LocalEnd, ShouldNotBeNil)
				So(ev.Event.End, ShouldNotBeNil)

				So(ev.Event.Start, ShouldResemble, geometry.ToCanonical(*ev.Event.DrillStart, ev.DrillArea))
				So(*ev.Event.End, ShouldResemble, geometry.ToCanonical(*ev.LocalEnd, ev.DrillArea))
			}
			So(drills, ShouldEqual, stats.DrillEvents)
		})
	})
}

func TestGenerateMatchCancellation(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When generating a match", func() {
			config := &samplematch.Config{NumEvents: 100, Seed: 1}
			events, err := samplematch.GenerateMatch(ctx, config, &samplematch.Stats{})

			Convey("Then generation stops with the context error", func() {
				So(err, ShouldNotBeNil)
				So(events, ShouldBeNil)
			})
		})
	})
}
