package layout_test

import (
	"testing"

	"github.com/rondolab/rondo/internal/domain/layout"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRect(t *testing.T) {
	Convey("Given two boxes", t, func() {
		a := layout.Rect{X: 0, Y: 0, W: 10, H: 10}

		Convey("When they are disjoint", func() {
			b := layout.Rect{X: 20, Y: 20, W: 10, H: 10}
			So(a.Intersects(b), ShouldBeFalse)
			So(a.Intersection(b), ShouldEqual, 0)
		})

		Convey("When they only share an edge", func() {
			b := layout.Rect{X: 10, Y: 0, W: 10, H: 10}
			So(a.Intersects(b), ShouldBeFalse)
		})

		Convey("When one contains the other", func() {
			b := layout.Rect{X: 2, Y: 2, W: 4, H: 4}
			So(a.Intersection(b), ShouldEqual, 16)
		})

		Convey("When padded", func() {
			p := a.Pad(4)
			So(p, ShouldResemble, layout.Rect{X: -4, Y: -4, W: 18, H: 18})
		})
	})
}

func TestRegistryPlace(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		r := layout.NewRegistry()

		Convey("When placing the first label", func() {
			p := r.Place(100, 100, 40, 12, nil)

			Convey("Then the preferred slot above the anchor wins", func() {
				So(p.Clean, ShouldBeTrue)
				So(p.Rect, ShouldResemble, layout.Rect{X: 80, Y: 74, W: 40, H: 12})
				So(r.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the slot above the anchor is occupied", func() {
			r.Occupy(layout.Rect{X: 80, Y: 60, W: 40, H: 40})
			p := r.Place(100, 100, 40, 12, nil)

			Convey("Then the label drops below instead", func() {
				So(p.Clean, ShouldBeTrue)
				So(p.Candidate.DY, ShouldBeGreaterThan, 0)
				So(p.Rect.Y, ShouldEqual, 114)
			})
		})

		Convey("When eight small labels share one anchor", func() {
			placements := make([]layout.Placement, 0, 8)
			for i := 0; i < 8; i++ {
				placements = append(placements, r.Place(500, 500, 8, 6, nil))
			}

			Convey("Then every slot in the ring is used cleanly", func() {
				for _, p := range placements {
					So(p.Clean, ShouldBeTrue)
				}
			})

			Convey("And no two labels overlap", func() {
				for i := 0; i < len(placements); i++ {
					for j := i + 1; j < len(placements); j++ {
						So(placements[i].Rect.Intersects(placements[j].Rect), ShouldBeFalse)
					}
				}
			})
		})

		Convey("When the ring cannot fit another label", func() {
			for i := 0; i < 8; i++ {
				r.Place(500, 500, 8, 6, nil)
			}
			p := r.Place(500, 500, 8, 6, nil)

			Convey("Then it still lands somewhere", func() {
				So(p.Clean, ShouldBeFalse)
				So(p.Rect.W, ShouldEqual, 8)
				So(r.Len(), ShouldEqual, 9)
			})
		})

		Convey("When resetting", func() {
			first := r.Place(100, 100, 40, 12, nil)
			r.Place(100, 100, 40, 12, nil)
			r.Reset()

			Convey("Then the registry starts over", func() {
				So(r.Len(), ShouldEqual, 0)
				So(r.Place(100, 100, 40, 12, nil), ShouldResemble, first)
			})
		})
	})

	Convey("Given two registries fed the same sequence", t, func() {
		anchors := [][2]float64{{100, 100}, {104, 102}, {300, 100}, {101, 99}, {500, 500}}
		run := func() []layout.Placement {
			r := layout.NewRegistry()
			out := make([]layout.Placement, 0, len(anchors))
			for _, a := range anchors {
				out = append(out, r.Place(a[0], a[1], 36, 12, nil))
			}
			return out
		}

		Convey("When placing", func() {
			Convey("Then the outcomes are identical", func() {
				So(run(), ShouldResemble, run())
			})
		})
	})

	Convey("Given a registry with custom padding", t, func() {
		r := layout.NewRegistry(layout.WithPadding(0))

		Convey("When labels touch edge to edge", func() {
			r.Occupy(layout.Rect{X: 0, Y: 0, W: 100, H: 74})
			p := r.Place(50, 100, 100, 12, nil)

			Convey("Then zero padding lets them sit flush", func() {
				So(p.Clean, ShouldBeTrue)
				So(p.Rect.Y, ShouldEqual, 74)
			})
		})
	})
}

func TestDefaultCandidates(t *testing.T) {
	Convey("Given the default ring", t, func() {
		ring := layout.DefaultCandidates()

		Convey("Then it covers all eight directions", func() {
			So(len(ring), ShouldEqual, 8)
			So(ring[0].DY, ShouldBeLessThan, 0)
			So(ring[1].DY, ShouldBeGreaterThan, 0)
			So(ring[2].DX, ShouldBeGreaterThan, 0)
			So(ring[3].DX, ShouldBeLessThan, 0)
		})
	})
}
