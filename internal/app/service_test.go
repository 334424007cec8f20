package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rondolab/rondo/internal/adapters/exporter"
	service "github.com/rondolab/rondo/internal/app"
	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/internal/domain/types"
	"github.com/rondolab/rondo/internal/render"
	"github.com/rondolab/rondo/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func startedService(t *testing.T) *service.Service {
	t.Helper()

	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(16),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(svc.Stop)

	return svc
}

func shotEvent(name string, seconds float64) event.MatchEvent {
	return event.MatchEvent{
		Type:         event.TypeShot,
		PlayerName:   name,
		Team:         "1",
		VideoSeconds: seconds,
		Start:        types.Position{X: 80, Y: 40},
		End:          &types.Position{X: 95, Y: 40},
	}
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When it starts", func() {
			err := svc.Start(context.Background())

			Convey("Then stats report it running", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["events"], ShouldEqual, 0)
			})

			Convey("Then starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})

		Convey("When it stops twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it reports stopped", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}

func TestServiceTagging(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When an event is tagged", func() {
			stored, err := svc.TagEvent(ctx, shotEvent("Villa", 120))

			Convey("Then it lands with an id and lists chronologically", func() {
				So(err, ShouldBeNil)
				So(stored.ID, ShouldNotBeEmpty)

				_, err := svc.TagEvent(ctx, shotEvent("Messi", 60))
				So(err, ShouldBeNil)

				events := svc.Events(ctx)
				So(events, ShouldHaveLength, 2)
				So(events[0].PlayerName, ShouldEqual, "Messi")
				So(events[1].PlayerName, ShouldEqual, "Villa")
			})

			Convey("Then its timestamp can be corrected", func() {
				So(err, ShouldBeNil)

				updated, err := svc.CorrectTimestamp(ctx, stored.ID, 30)
				So(err, ShouldBeNil)
				So(updated.VideoSeconds, ShouldEqual, 30)
			})

			Convey("Then it can be deleted", func() {
				So(err, ShouldBeNil)
				So(svc.DeleteEvent(ctx, stored.ID), ShouldBeNil)
				So(svc.Events(ctx), ShouldBeEmpty)
			})
		})

		Convey("When an invalid event is tagged", func() {
			bad := shotEvent("", 10)
			_, err := svc.TagEvent(ctx, bad)

			Convey("Then validation rejects it", func() {
				So(err, ShouldEqual, event.ErrMissingPlayer)
			})
		})

		Convey("When everything is cleared", func() {
			_, err := svc.TagEvent(ctx, shotEvent("Villa", 120))
			So(err, ShouldBeNil)

			So(svc.ClearEvents(ctx), ShouldEqual, 1)
			So(svc.Events(ctx), ShouldBeEmpty)
		})
	})
}

func TestServiceCSV(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		raw := strings.Join([]string{
			"Event Type,Player Name,Player Team,Start X,Start Y,End X,End Y,Minute",
			"Pass,Xavi,1,40,50,60,45,3",
			"Goal,Messi,1,88,52,99,50,12",
			"Shot,Modric,2,25,45,5,50,20",
		}, "\n")

		Convey("When a CSV is imported", func() {
			n, err := svc.ImportCSV(ctx, strings.NewReader(raw))

			Convey("Then every row is stored with minute-derived timestamps", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)

				events := svc.Events(ctx)
				So(events, ShouldHaveLength, 3)
				So(events[0].PlayerName, ShouldEqual, "Xavi")
				So(events[0].VideoSeconds, ShouldEqual, 180)
				So(events[0].MinuteOrDerived(), ShouldEqual, 3)
			})

			Convey("Then exporting produces a readable CSV again", func() {
				So(err, ShouldBeNil)

				var buf bytes.Buffer
				So(svc.ExportCSV(ctx, &buf), ShouldBeNil)

				out := buf.String()
				So(out, ShouldStartWith, "Event Type,Player Name,Player Team")
				So(strings.Count(out, "\n"), ShouldEqual, 4)
				So(out, ShouldContainSubstring, "Messi")
			})
		})

		Convey("When the CSV has no header", func() {
			_, err := svc.ImportCSV(ctx, strings.NewReader("1,2,3"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServiceGraphics(t *testing.T) {
	Convey("Given a service with a few tagged events", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		_, err := svc.TagEvent(ctx, shotEvent("Villa", 600))
		So(err, ShouldBeNil)
		goal := shotEvent("Messi", 1200)
		goal.Type = event.TypeGoal
		_, err = svc.TagEvent(ctx, goal)
		So(err, ShouldBeNil)

		Convey("When each kind renders synchronously", func() {
			for _, kind := range types.Kinds() {
				png, err := svc.Graphic(ctx, kind, render.Options{TeamName: "Home"}, nil)
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(png, pngMagic), ShouldBeTrue)
			}
		})

		Convey("When the kind is unknown", func() {
			_, err := svc.Graphic(ctx, types.GraphicKind("poster"), render.Options{}, nil)
			So(errors.Is(err, types.ErrUnknownGraphicKind), ShouldBeTrue)
		})

		Convey("When decoded rows are passed directly", func() {
			rows := []types.GraphicEvent{
				{Type: "Shot", PlayerName: "Kaka", Team: "2", StartX: 70, StartY: 30, EndX: 98, EndY: 48, Minute: 9},
			}
			png, err := svc.Graphic(ctx, types.GraphicShotMap, render.Options{}, rows)

			Convey("Then the upload renders without touching the store", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(png, pngMagic), ShouldBeTrue)
				So(svc.Events(ctx), ShouldHaveLength, 2)
			})
		})
	})
}

func TestServiceExports(t *testing.T) {
	Convey("Given a service with tagged events", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		_, err := svc.TagEvent(ctx, shotEvent("Villa", 600))
		So(err, ShouldBeNil)

		Convey("When an export is enqueued", func() {
			job, err := svc.EnqueueExport(ctx, types.GraphicTimeline, render.Options{TeamName: "Home"})

			Convey("Then it finishes with a PNG", func() {
				So(err, ShouldBeNil)
				So(job.Status, ShouldEqual, exporter.StatusPending)

				deadline := time.Now().Add(15 * time.Second)
				var done exporter.Job
				for time.Now().Before(deadline) {
					done, err = svc.ExportJob(ctx, job.ID)
					So(err, ShouldBeNil)
					if done.Status == exporter.StatusDone || done.Status == exporter.StatusFailed {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}

				So(done.Status, ShouldEqual, exporter.StatusDone)
				So(bytes.HasPrefix(done.PNG, pngMagic), ShouldBeTrue)
			})
		})

		Convey("When the job id is unknown", func() {
			_, err := svc.ExportJob(ctx, "missing")
			So(errors.Is(err, exporter.ErrJobNotFound), ShouldBeTrue)
		})
	})
}

func TestServiceAggregates(t *testing.T) {
	Convey("Given a service with events on both teams", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		events := []event.MatchEvent{
			shotEvent("Villa", 300),
			shotEvent("Villa", 900),
			{Type: event.TypePass, PlayerName: "Xavi", Team: "1", VideoSeconds: 60,
				Start: types.Position{X: 40, Y: 50}, End: &types.Position{X: 60, Y: 45}},
			{Type: event.TypeTackle, PlayerName: "Pepe", Team: "2", VideoSeconds: 400,
				Start: types.Position{X: 55, Y: 30}},
		}
		for _, e := range events {
			_, err := svc.TagEvent(ctx, e)
			So(err, ShouldBeNil)
		}

		Convey("Then counts split by team", func() {
			counts := svc.CountsByTeam(ctx)
			So(counts, ShouldContainKey, "1")
			So(counts, ShouldContainKey, "2")
			So(counts["1"]["Shot"], ShouldEqual, 2)
			So(counts["1"]["Pass"], ShouldEqual, 1)
			So(counts["2"]["Tackle"], ShouldEqual, 1)
		})

		Convey("Then the timeline anchors at zero and stays monotone", func() {
			series := svc.Timeline(ctx, 0)
			So(series, ShouldHaveLength, 1)

			points := series[0].Points
			So(points[0].Minute, ShouldEqual, 0)
			So(points[0].Cumulative, ShouldEqual, 0)
			for i := 1; i < len(points); i++ {
				So(points[i].Cumulative, ShouldBeGreaterThanOrEqualTo, points[i-1].Cumulative)
			}
		})

		Convey("Then leaders rank by activity", func() {
			leaders := svc.Leaders(ctx)
			So(len(leaders), ShouldBeGreaterThanOrEqualTo, 3)
			So(leaders[0].PlayerName, ShouldEqual, "Villa")
			So(leaders[0].Total, ShouldEqual, 2)
		})
	})
}
