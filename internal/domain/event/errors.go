package event

import (
	"errors"
)

// Sentinel validation errors.
var (
	ErrMissingType      = errors.New("event type is required")
	ErrMissingTeam      = errors.New("team is required")
	ErrMissingPlayer    = errors.New("player name is required")
	ErrInvalidTimestamp = errors.New("video timestamp must be a non-negative number")
)
