package render

import "errors"

// Sentinel kinds for render errors.
var (
	ErrFontUnavailable = errors.New("font unavailable")
)
