package eventcsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rondolab/rondo/internal/adapters/eventcsv"
	"github.com/rondolab/rondo/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRead(t *testing.T) {
	Convey("Given a well-formed CSV without a minute column", t, func() {
		raw := strings.Join([]string{
			"Event Type, Player Name, Player Team, Start X, Start Y, End X, End Y",
			"Pass, Xavi, 1, 40, 50, 60, 45",
			"Shot, Villa, 1, 80, 40, 95, 40",
			"Tackle, Pepe, Away, 55, 30, 0, 0",
		}, "\n")

		Convey("When it is read", func() {
			events, err := eventcsv.Read(strings.NewReader(raw))

			Convey("Then every row decodes with zero minutes", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(events[0], ShouldResemble, types.GraphicEvent{
					Type: "Pass", PlayerName: "Xavi", Team: "1",
					StartX: 40, StartY: 50, EndX: 60, EndY: 45,
				})
				So(events[2].Team, ShouldEqual, types.TeamLabel("Away"))
				So(events[2].HasEnd(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a CSV with a minute column and messy numbers", t, func() {
		raw := strings.Join([]string{
			"Event Type,Player Name,Player Team,Start X,Start Y,End X,End Y,Minute",
			"Pass,Xavi,1.0,40,50,abc,,12",
			"Goal,Messi,1,88,52,99,50,oops",
		}, "\n")

		Convey("When it is read", func() {
			events, err := eventcsv.Read(strings.NewReader(raw))

			Convey("Then bad numerics fall back to zero", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].EndX, ShouldEqual, 0)
				So(events[0].EndY, ShouldEqual, 0)
				So(events[0].Minute, ShouldEqual, 12)
				So(events[1].Minute, ShouldEqual, 0)
			})

			Convey("Then numeric team labels normalize", func() {
				So(events[0].Team, ShouldEqual, types.TeamLabel("1"))
				So(events[0].Team.Matches(events[1].Team), ShouldBeTrue)
			})
		})
	})

	Convey("Given a CSV with reordered columns", t, func() {
		raw := strings.Join([]string{
			"Player Name,Event Type,Start Y,Start X,Player Team,End X,End Y",
			"Modric,Pass,45,30,2,50,40",
		}, "\n")

		events, err := eventcsv.Read(strings.NewReader(raw))

		Convey("Then the header names win over position", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].Type, ShouldEqual, "Pass")
			So(events[0].PlayerName, ShouldEqual, "Modric")
			So(events[0].StartX, ShouldEqual, 30)
			So(events[0].StartY, ShouldEqual, 45)
		})
	})

	Convey("Given rows with fewer fields than the header", t, func() {
		raw := strings.Join([]string{
			"Event Type,Player Name,Player Team,Start X,Start Y,End X,End Y",
			"Pass,Xavi,1,40",
		}, "\n")

		events, err := eventcsv.Read(strings.NewReader(raw))

		Convey("Then the missing trailing fields read as zero", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].StartX, ShouldEqual, 40)
			So(events[0].StartY, ShouldEqual, 0)
			So(events[0].HasEnd(), ShouldBeFalse)
		})
	})

	Convey("Given blank padding rows", t, func() {
		raw := strings.Join([]string{
			"Event Type,Player Name,Player Team,Start X,Start Y,End X,End Y",
			"Pass,Xavi,1,40,50,60,45",
			",,,,,,",
		}, "\n")

		events, err := eventcsv.Read(strings.NewReader(raw))

		Convey("Then empty rows are skipped", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
		})
	})

	Convey("Given input without a recognizable header", t, func() {
		Convey("Then an empty reader is rejected", func() {
			_, err := eventcsv.Read(strings.NewReader(""))
			So(err, ShouldEqual, eventcsv.ErrMissingHeader)
		})

		Convey("Then a headerless data dump is rejected", func() {
			_, err := eventcsv.Read(strings.NewReader("a,b,c\n1,2,3"))
			So(err, ShouldEqual, eventcsv.ErrMissingHeader)
		})
	})
}

func TestWriteRead(t *testing.T) {
	Convey("Given a slice of events", t, func() {
		events := []types.GraphicEvent{
			{Type: "Pass", PlayerName: "Xavi", Team: "1", StartX: 40.5, StartY: 50, EndX: 60, EndY: 45.25, Minute: 3},
			{Type: "Shot", PlayerName: "Villa", Team: "1", StartX: 80, StartY: 40, EndX: 95, EndY: 40, Minute: 17},
			{Type: "Save", PlayerName: "Casillas", Team: "Away", StartX: 2, StartY: 50, Minute: 17},
		}

		Convey("When they are written and read back", func() {
			var buf bytes.Buffer
			So(eventcsv.Write(&buf, events), ShouldBeNil)

			decoded, err := eventcsv.Read(&buf)

			Convey("Then the round trip preserves every field", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, events)
			})
		})

		Convey("When the output is inspected", func() {
			var buf bytes.Buffer
			So(eventcsv.Write(&buf, events), ShouldBeNil)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

			Convey("Then the canonical header leads", func() {
				So(lines[0], ShouldEqual, "Event Type,Player Name,Player Team,Start X,Start Y,End X,End Y,Minute")
				So(lines, ShouldHaveLength, 4)
			})
		})
	})

	Convey("Given no events", t, func() {
		var buf bytes.Buffer
		So(eventcsv.Write(&buf, nil), ShouldBeNil)

		Convey("Then only the header is written and it reads back empty", func() {
			events, err := eventcsv.Read(&buf)
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})
	})
}
