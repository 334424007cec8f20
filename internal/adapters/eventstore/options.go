package eventstore

import "time"

// Option configures a MemStore.
type Option func(*MemStore)

// WithCapacityHint pre-sizes internal structures for the expected
// number of events. Values below one are ignored.
func WithCapacityHint(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides the time source used to stamp events that arrive
// without a creation time. Nil clocks are ignored.
func WithClock(clock func() time.Time) Option {
	return func(s *MemStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}
