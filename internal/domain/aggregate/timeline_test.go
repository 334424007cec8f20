package aggregate_test

import (
	"testing"

	aggregate "github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCumulativeXG(t *testing.T) {
	Convey("Given a goal at minute 10 and a shot at minute 20", t, func() {
		events := []types.GraphicEvent{
			{Type: "Goal", Team: "1", PlayerName: "Messi", Minute: 10, XG: 0.3, IsGoal: true},
			{Type: "Shot", Team: "1", PlayerName: "Villa", Minute: 20, XG: 0.1},
		}

		Convey("When building the series", func() {
			series := aggregate.CumulativeXG(events)
			So(len(series), ShouldEqual, 1)
			points := series[0].Points

			Convey("Then it anchors at the origin", func() {
				So(points[0].Minute, ShouldEqual, 0)
				So(points[0].Cumulative, ShouldEqual, 0)
			})

			Convey("And each event adds its value at its minute", func() {
				So(points[1].Minute, ShouldEqual, 10)
				So(points[1].Cumulative, ShouldAlmostEqual, 0.3, 1e-12)
				So(points[1].IsGoal, ShouldBeTrue)
				So(points[2].Minute, ShouldEqual, 20)
				So(points[2].Cumulative, ShouldAlmostEqual, 0.4, 1e-12)
				So(points[2].XG, ShouldAlmostEqual, 0.1, 1e-12)
				So(points[2].IsGoal, ShouldBeFalse)
			})

			Convey("And the line extends flat to the half length", func() {
				last := points[len(points)-1]
				So(last.Minute, ShouldEqual, 45)
				So(last.Cumulative, ShouldAlmostEqual, 0.4, 1e-12)
				So(last.IsGoal, ShouldBeFalse)
			})
		})

		Convey("When a live minute is past the half length", func() {
			series := aggregate.CumulativeXG(events, aggregate.WithLiveMinute(63))

			Convey("Then the terminal point follows the clock", func() {
				points := series[0].Points
				So(points[len(points)-1].Minute, ShouldEqual, 63)
			})
		})

		Convey("When a custom half length is shorter than the last event", func() {
			series := aggregate.CumulativeXG(events, aggregate.WithHalfLength(15))

			Convey("Then the last event still bounds the terminal", func() {
				points := series[0].Points
				So(points[len(points)-1].Minute, ShouldEqual, 20)
			})
		})
	})

	Convey("Given shots out of chronological order", t, func() {
		events := []types.GraphicEvent{
			{Type: "Shot", Team: "1", PlayerName: "A", Minute: 30, XG: 0.2},
			{Type: "Shot", Team: "1", PlayerName: "B", Minute: 5, XG: 0.05},
			{Type: "Shot", Team: "1", PlayerName: "C", Minute: 15, XG: 0.4},
		}

		Convey("When building the series", func() {
			series := aggregate.CumulativeXG(events)
			points := series[0].Points

			Convey("Then minutes and totals both never decrease", func() {
				for i := 1; i < len(points); i++ {
					So(points[i].Minute, ShouldBeGreaterThanOrEqualTo, points[i-1].Minute)
					So(points[i].Cumulative, ShouldBeGreaterThanOrEqualTo, points[i-1].Cumulative)
				}
			})

			Convey("And the total matches the sum of the parts", func() {
				So(series[0].Total(), ShouldAlmostEqual, 0.65, 1e-12)
			})
		})
	})

	Convey("Given shots from two teams", t, func() {
		events := []types.GraphicEvent{
			{Type: "Shot", Team: "1", PlayerName: "A", Minute: 3, XG: 0.1},
			{Type: "Shot", Team: "2", PlayerName: "B", Minute: 7, XG: 0.2},
			{Type: "Shot", Team: "1", PlayerName: "C", Minute: 12, XG: 0.3},
		}

		Convey("When building the series", func() {
			series := aggregate.CumulativeXG(events)

			Convey("Then each team gets its own line", func() {
				So(len(series), ShouldEqual, 2)
				So(series[0].Team, ShouldEqual, types.TeamLabel("1"))
				So(series[1].Team, ShouldEqual, types.TeamLabel("2"))
				So(series[0].Total(), ShouldAlmostEqual, 0.4, 1e-12)
				So(series[1].Total(), ShouldAlmostEqual, 0.2, 1e-12)
			})
		})
	})

	Convey("Given a lone early shot", t, func() {
		events := []types.GraphicEvent{
			{Type: "Shot", Team: "1", PlayerName: "A", Minute: 1, XG: 0.2},
		}

		Convey("When the half length is set very low", func() {
			series := aggregate.CumulativeXG(events, aggregate.WithHalfLength(2))

			Convey("Then the series never ends before minute five", func() {
				points := series[0].Points
				So(points[len(points)-1].Minute, ShouldEqual, 5)
			})
		})
	})

	Convey("Given no shot-like events", t, func() {
		events := []types.GraphicEvent{
			{Type: "Pass", Team: "1", PlayerName: "Xavi", Minute: 4},
		}

		Convey("When building the series", func() {
			series := aggregate.CumulativeXG(events)

			Convey("Then no lines are produced", func() {
				So(len(series), ShouldEqual, 0)
			})
		})
	})
}
