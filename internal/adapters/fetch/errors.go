package fetch

import "errors"

// Sentinel kinds for upstream fetch errors.
var (
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	ErrBodyTooLarge   = errors.New("upstream body too large")
	ErrEmptyCategory  = errors.New("empty category")
)
