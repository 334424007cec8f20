package eventstore

import "errors"

// Sentinel kinds for event store errors.
var (
	ErrNotFound = errors.New("event not found")
	ErrClosed   = errors.New("store closed")
)
