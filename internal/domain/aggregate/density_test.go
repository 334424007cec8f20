package aggregate_test

import (
	"testing"

	aggregate "github.com/rondolab/rondo/internal/domain/aggregate"
	"github.com/rondolab/rondo/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildDensityGrid(t *testing.T) {
	Convey("Given no events", t, func() {
		Convey("When building the grid", func() {
			grid := aggregate.BuildDensityGrid(nil)

			Convey("Then there is nothing to draw", func() {
				So(grid, ShouldBeNil)
			})
		})
	})

	Convey("Given a single event at the pitch centre", t, func() {
		events := []types.GraphicEvent{
			{Type: "Pass", Team: "1", StartX: 50, StartY: 50},
		}

		Convey("When building on a grid where the centre lands on a cell", func() {
			grid := aggregate.BuildDensityGrid(events, aggregate.WithGridSize(101, 101))

			Convey("Then the peak sits on that cell", func() {
				So(grid, ShouldNotBeNil)
				So(grid.W, ShouldEqual, 101)
				So(grid.H, ShouldEqual, 101)
				So(grid.Normalized(50, 50), ShouldEqual, 1)
			})

			Convey("And the value falls off with distance", func() {
				So(grid.At(50, 50), ShouldBeGreaterThan, grid.At(60, 50))
				So(grid.At(60, 50), ShouldBeGreaterThan, grid.At(70, 50))
			})
		})

		Convey("When the bandwidth is narrow", func() {
			grid := aggregate.BuildDensityGrid(events,
				aggregate.WithGridSize(101, 101), aggregate.WithSigma(2))

			Convey("Then cells inside three sigmas accumulate", func() {
				So(grid.At(56, 50), ShouldBeGreaterThan, 0)
			})

			Convey("And cells beyond three sigmas stay zero", func() {
				So(grid.At(57, 50), ShouldEqual, 0)
				So(grid.At(50, 57), ShouldEqual, 0)
			})
		})
	})

	Convey("Given events off the pitch", t, func() {
		events := []types.GraphicEvent{
			{Type: "Pass", Team: "1", StartX: 150, StartY: -40},
		}

		Convey("When building the grid", func() {
			grid := aggregate.BuildDensityGrid(events, aggregate.WithGridSize(101, 101))

			Convey("Then the position clamps to the nearest corner", func() {
				So(grid, ShouldNotBeNil)
				So(grid.Normalized(100, 0), ShouldEqual, 1)
			})
		})
	})

	Convey("Given several overlapping events", t, func() {
		events := []types.GraphicEvent{
			{Type: "Pass", Team: "1", StartX: 30, StartY: 50},
			{Type: "Pass", Team: "1", StartX: 31, StartY: 50},
			{Type: "Shot", Team: "2", StartX: 80, StartY: 20},
		}

		Convey("When building twice", func() {
			a := aggregate.BuildDensityGrid(events)
			b := aggregate.BuildDensityGrid(events)

			Convey("Then the result is deterministic", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When reading normalized values", func() {
			grid := aggregate.BuildDensityGrid(events)

			Convey("Then they stay within the unit range", func() {
				for y := 0; y < grid.H; y += 16 {
					for x := 0; x < grid.W; x += 16 {
						v := grid.Normalized(x, y)
						So(v, ShouldBeGreaterThanOrEqualTo, 0)
						So(v, ShouldBeLessThanOrEqualTo, 1)
					}
				}
			})
		})
	})

	Convey("Given a grid", t, func() {
		grid := aggregate.BuildDensityGrid([]types.GraphicEvent{
			{Type: "Pass", Team: "1", StartX: 50, StartY: 50},
		})

		Convey("When reading out of bounds", func() {
			Convey("Then the read is zero instead of a panic", func() {
				So(grid.At(-1, 0), ShouldEqual, 0)
				So(grid.At(0, -1), ShouldEqual, 0)
				So(grid.At(grid.W, 0), ShouldEqual, 0)
				So(grid.At(0, grid.H), ShouldEqual, 0)
			})
		})
	})
}
