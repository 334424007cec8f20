package eventstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rondolab/rondo/internal/adapters/eventstore"
	"github.com/rondolab/rondo/internal/domain/event"
	. "github.com/smartystreets/goconvey/convey"
)

func validEvent(seconds float64) event.MatchEvent {
	return event.MatchEvent{
		Type:         "Pass",
		PlayerName:   "Xavi",
		Team:         "1",
		VideoSeconds: seconds,
	}
}

func TestMemStoreAdd(t *testing.T) {
	Convey("Given an empty store with a fixed clock", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 3, 8, 15, 30, 0, 0, time.UTC)
		store := eventstore.NewMemStore(eventstore.WithClock(func() time.Time { return now }))

		Convey("When a valid event without an id is added", func() {
			id, err := store.Add(ctx, validEvent(12))

			Convey("Then it receives a generated id and the clock's timestamp", func() {
				So(err, ShouldBeNil)
				So(id, ShouldNotBeEmpty)

				stored, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(stored.ID, ShouldEqual, id)
				So(stored.CreatedAt, ShouldEqual, now)
				So(store.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the event already carries an id", func() {
			e := validEvent(12)
			e.ID = "evt-7"

			id, err := store.Add(ctx, e)

			Convey("Then the id is kept", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, "evt-7")
			})
		})

		Convey("When the event is missing its type", func() {
			e := validEvent(12)
			e.Type = "  "

			_, err := store.Add(ctx, e)

			Convey("Then validation rejects it and nothing is stored", func() {
				So(err, ShouldEqual, event.ErrMissingType)
				So(store.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the event is missing its team", func() {
			e := validEvent(12)
			e.Team = ""

			_, err := store.Add(ctx, e)

			So(err, ShouldEqual, event.ErrMissingTeam)
		})

		Convey("When the event carries off-pitch coordinates", func() {
			e := validEvent(12)
			e.Start.X = 140
			e.Start.Y = -20

			id, err := store.Add(ctx, e)
			So(err, ShouldBeNil)

			Convey("Then normalization clamps them into range", func() {
				stored, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(stored.Start.X, ShouldEqual, 100)
				So(stored.Start.Y, ShouldEqual, 0)
			})
		})
	})
}

func TestMemStoreGetDelete(t *testing.T) {
	Convey("Given a store holding one event", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore()

		id, err := store.Add(ctx, validEvent(30))
		So(err, ShouldBeNil)

		Convey("Then fetching an unknown id returns ErrNotFound", func() {
			_, err := store.Get(ctx, "missing")
			So(err, ShouldEqual, eventstore.ErrNotFound)
		})

		Convey("When the event is deleted", func() {
			So(store.Delete(ctx, id), ShouldBeNil)

			Convey("Then it is gone and deleting again fails", func() {
				So(store.Len(ctx), ShouldEqual, 0)
				So(store.Delete(ctx, id), ShouldEqual, eventstore.ErrNotFound)
			})
		})

		Convey("When everything is deleted", func() {
			_, err := store.Add(ctx, validEvent(45))
			So(err, ShouldBeNil)

			n := store.DeleteAll(ctx)

			Convey("Then the count of removed events comes back", func() {
				So(n, ShouldEqual, 2)
				So(store.Len(ctx), ShouldEqual, 0)
				So(store.DeleteAll(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemStoreBulkAdd(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore()

		Convey("When a valid batch is added", func() {
			batch := []event.MatchEvent{validEvent(10), validEvent(20), validEvent(30)}

			ids, err := store.BulkAdd(ctx, batch)

			Convey("Then every event lands with its own id", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldHaveLength, 3)
				So(store.Len(ctx), ShouldEqual, 3)

				seen := make(map[string]bool)
				for _, id := range ids {
					seen[id] = true
				}
				So(seen, ShouldHaveLength, 3)
			})
		})

		Convey("When one event in the batch is invalid", func() {
			bad := validEvent(20)
			bad.PlayerName = ""
			batch := []event.MatchEvent{validEvent(10), bad, validEvent(30)}

			_, err := store.BulkAdd(ctx, batch)

			Convey("Then the whole batch is rejected", func() {
				So(err, ShouldEqual, event.ErrMissingPlayer)
				So(store.Len(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemStoreList(t *testing.T) {
	Convey("Given events added out of video order", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore()

		ids := make([]string, 0, 5)
		for _, seconds := range []float64{300, 60, 600, 60, 120} {
			id, err := store.Add(ctx, validEvent(seconds))
			So(err, ShouldBeNil)
			ids = append(ids, id)
		}

		Convey("When the store is listed", func() {
			events := store.List(ctx)

			Convey("Then events come back in video-timestamp order", func() {
				So(events, ShouldHaveLength, 5)
				for i := 1; i < len(events); i++ {
					So(events[i].VideoSeconds, ShouldBeGreaterThanOrEqualTo, events[i-1].VideoSeconds)
				}
			})

			Convey("Then equal timestamps keep their arrival order", func() {
				So(events[0].VideoSeconds, ShouldEqual, 60)
				So(events[1].VideoSeconds, ShouldEqual, 60)
				So(events[0].ID, ShouldEqual, ids[1])
				So(events[1].ID, ShouldEqual, ids[3])
			})
		})
	})

	Convey("Given a store with tie-broken arrivals", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore()

		e1 := validEvent(90)
		e1.ID = "first"
		e2 := validEvent(90)
		e2.ID = "second"

		_, err := store.Add(ctx, e1)
		So(err, ShouldBeNil)
		_, err = store.Add(ctx, e2)
		So(err, ShouldBeNil)

		Convey("Then the earlier arrival lists first", func() {
			events := store.List(ctx)
			So(events[0].ID, ShouldEqual, "first")
			So(events[1].ID, ShouldEqual, "second")
		})
	})
}

func TestMemStoreCorrectTimestamp(t *testing.T) {
	Convey("Given a store with three events", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore()

		idA, err := store.Add(ctx, validEvent(100))
		So(err, ShouldBeNil)
		_, err = store.Add(ctx, validEvent(200))
		So(err, ShouldBeNil)
		_, err = store.Add(ctx, validEvent(300))
		So(err, ShouldBeNil)

		Convey("When the first event's timestamp is corrected forward", func() {
			updated, err := store.CorrectTimestamp(ctx, idA, 250)

			Convey("Then the update is returned and the listing re-sorts", func() {
				So(err, ShouldBeNil)
				So(updated.VideoSeconds, ShouldEqual, 250)

				events := store.List(ctx)
				So(events[0].VideoSeconds, ShouldEqual, 200)
				So(events[1].VideoSeconds, ShouldEqual, 250)
				So(events[1].ID, ShouldEqual, idA)
				So(events[2].VideoSeconds, ShouldEqual, 300)
			})
		})

		Convey("When the id is unknown", func() {
			_, err := store.CorrectTimestamp(ctx, "missing", 10)
			So(err, ShouldEqual, eventstore.ErrNotFound)
		})

		Convey("When the timestamp is negative", func() {
			_, err := store.CorrectTimestamp(ctx, idA, -5)
			So(err, ShouldEqual, event.ErrInvalidTimestamp)
		})
	})
}

func TestMemStoreClose(t *testing.T) {
	Convey("Given a store with one event", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore()

		id, err := store.Add(ctx, validEvent(60))
		So(err, ShouldBeNil)

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then writes are rejected but reads keep working", func() {
				_, err := store.Add(ctx, validEvent(90))
				So(err, ShouldEqual, eventstore.ErrClosed)

				_, err = store.BulkAdd(ctx, []event.MatchEvent{validEvent(90)})
				So(err, ShouldEqual, eventstore.ErrClosed)

				_, err = store.CorrectTimestamp(ctx, id, 10)
				So(err, ShouldEqual, eventstore.ErrClosed)

				stored, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(stored.ID, ShouldEqual, id)
				So(store.List(ctx), ShouldHaveLength, 1)
			})

			Convey("Then closing again is harmless", func() {
				So(store.Close(), ShouldBeNil)
			})
		})
	})
}

func TestMemStoreConcurrentAdds(t *testing.T) {
	Convey("Given many goroutines tagging at once", t, func() {
		ctx := context.Background()
		store := eventstore.NewMemStore(eventstore.WithCapacityHint(256))

		const writers = 8
		const perWriter = 25

		var wg sync.WaitGroup
		wg.Add(writers)
		for w := 0; w < writers; w++ {
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					e := validEvent(float64(w*perWriter + i))
					e.PlayerName = fmt.Sprintf("Player %d", w)
					if _, err := store.Add(ctx, e); err != nil {
						t.Error(err)
					}
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every event landed exactly once", func() {
			So(store.Len(ctx), ShouldEqual, writers*perWriter)

			events := store.List(ctx)
			So(events, ShouldHaveLength, writers*perWriter)
			for i := 1; i < len(events); i++ {
				So(events[i].VideoSeconds, ShouldBeGreaterThanOrEqualTo, events[i-1].VideoSeconds)
			}
		})
	})
}
