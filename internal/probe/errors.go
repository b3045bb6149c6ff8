package probe

import "errors"

// Sentinel kinds for probe errors.
var (
	ErrUnhealthy  = errors.New("service unhealthy")
	ErrNoPairs    = errors.New("no pairs to probe")
	ErrViolations = errors.New("view invariants violated")
)
