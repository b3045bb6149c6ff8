package quadrant

import "errors"

// Sentinel kinds for quadrant errors.
var (
	ErrUnknownPair = errors.New("unknown metric pair")
	ErrInvalidPair = errors.New("invalid metric pair")
)
