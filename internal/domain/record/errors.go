package record

import "errors"

// Sentinel kinds for record handling.
var (
	// ErrSourceUnavailable marks a category whose envelope reported
	// success:false or could not be fetched. Callers recover by treating the
	// category as empty.
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrDecodeEnvelope    = errors.New("decode envelope failed")
)
