package eventstore

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rondolab/rondo/internal/domain/event"
	"github.com/rondolab/rondo/pkg/metrics"
)

const defaultCapacityHint = 512

// MemStore keeps a match's events in memory. A match produces a few
// thousand events at most, so a mutex-guarded map with sort-on-read is
// plenty; persistence is the caller's problem (CSV export exists for
// that).
type MemStore struct {
	mu       sync.RWMutex
	rows     map[string]row
	seq      uint64
	closed   bool
	capacity int
	clock    func() time.Time
}

// row pairs an event with its insertion sequence so List can break
// timestamp ties in arrival order.
type row struct {
	ev  event.MatchEvent
	seq uint64
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory event store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		capacity: defaultCapacityHint,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.rows = make(map[string]row, s.capacity)

	return s
}

// Add validates, normalizes and stores one event, assigning an id when
// the event carries none. Returns the stored id.
func (s *MemStore) Add(_ context.Context, e event.MatchEvent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.add(e)
	if err != nil {
		return "", err
	}

	metrics.RecordEventTagged()
	metrics.UpdateStoreEvents(len(s.rows))

	return id, nil
}

// BulkAdd stores a batch atomically: every event is validated before
// any of them lands. Returns ids in input order.
func (s *MemStore) BulkAdd(_ context.Context, events []event.MatchEvent) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	for i := range events {
		e := events[i]
		e.Normalize()
		if err := e.Validate(); err != nil {
			return nil, err
		}
		events[i] = e
	}

	ids := make([]string, 0, len(events))
	for i := range events {
		id, err := s.add(events[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	metrics.RecordEventsImported(len(ids))
	metrics.UpdateStoreEvents(len(s.rows))

	return ids, nil
}

// add stores one event. Caller holds the write lock.
func (s *MemStore) add(e event.MatchEvent) (string, error) {
	if s.closed {
		return "", ErrClosed
	}

	e.Normalize()
	if err := e.Validate(); err != nil {
		return "", err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock()
	}

	s.seq++
	s.rows[e.ID] = row{ev: e, seq: s.seq}

	return e.ID, nil
}

// Get returns the event with the given id.
func (s *MemStore) Get(_ context.Context, id string) (event.MatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[id]
	if !ok {
		return event.MatchEvent{}, ErrNotFound
	}

	return r.ev, nil
}

// List returns all events sorted by video timestamp, insertion order
// breaking ties. The returned slice is a copy.
func (s *MemStore) List(_ context.Context) []event.MatchEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]row, 0, len(s.rows))
	for _, r := range s.rows {
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ev.VideoSeconds != rows[j].ev.VideoSeconds {
			return rows[i].ev.VideoSeconds < rows[j].ev.VideoSeconds
		}
		return rows[i].seq < rows[j].seq
	})

	events := make([]event.MatchEvent, len(rows))
	for i, r := range rows {
		events[i] = r.ev
	}

	return events
}

// Delete removes one event. Returns ErrNotFound for unknown ids.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}

	delete(s.rows, id)

	metrics.RecordEventsDeleted(1)
	metrics.UpdateStoreEvents(len(s.rows))

	return nil
}

// DeleteAll clears the store and returns how many events it held.
func (s *MemStore) DeleteAll(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.rows)
	s.rows = make(map[string]row, s.capacity)

	if n > 0 {
		metrics.RecordEventsDeleted(n)
	}
	metrics.UpdateStoreEvents(0)

	return n
}

// CorrectTimestamp moves an event to a new video timestamp and returns
// the updated event. The sequence number is kept, so two events on the
// same corrected timestamp still list in their original arrival order.
func (s *MemStore) CorrectTimestamp(_ context.Context, id string, seconds float64) (event.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return event.MatchEvent{}, ErrClosed
	}

	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return event.MatchEvent{}, event.ErrInvalidTimestamp
	}

	r, ok := s.rows[id]
	if !ok {
		return event.MatchEvent{}, ErrNotFound
	}

	r.ev.VideoSeconds = seconds
	s.rows[id] = r

	return r.ev, nil
}

// Len returns the number of stored events.
func (s *MemStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows)
}

// Close rejects further writes. Reads keep working so in-flight renders
// can finish. Closing twice is harmless.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
