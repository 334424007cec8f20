package eventcsv

import "errors"

// Sentinel kinds for CSV codec errors.
var ErrMissingHeader = errors.New("missing csv header")
