// Package eventstore defines the tagged-event store interface and errors.
//
// The store is the single source of truth for a match's events. Events
// are immutable once added; the one sanctioned mutation is a timestamp
// correction, which exists because taggers habitually mark events a few
// seconds late and fix them afterwards.
package eventstore

import (
	"context"

	"github.com/rondolab/rondo/internal/domain/event"
)

// Store provides read/write access to tagged match events.
type Store interface {
	// Add validates, normalizes and stores one event, assigning an id
	// when the event carries none. Returns the stored id.
	Add(ctx context.Context, e event.MatchEvent) (string, error)

	// BulkAdd stores a batch atomically: either every event lands or
	// none do. Returns ids in input order.
	BulkAdd(ctx context.Context, events []event.MatchEvent) ([]string, error)

	// Get returns the event with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (event.MatchEvent, error)

	// List returns all events in video-timestamp order, insertion order
	// breaking ties.
	List(ctx context.Context) []event.MatchEvent

	// Delete removes one event.
	Delete(ctx context.Context, id string) error

	// DeleteAll clears the store and returns how many events it held.
	DeleteAll(ctx context.Context) int

	// CorrectTimestamp moves an event to a new video timestamp and
	// returns the updated event.
	CorrectTimestamp(ctx context.Context, id string, seconds float64) (event.MatchEvent, error)

	// Len returns the number of stored events.
	Len(ctx context.Context) int

	// Close rejects further writes.
	Close() error
}
