package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrInvalidDefinition = errors.New("invalid metric definition")
	ErrDuplicateMetric   = errors.New("duplicate metric key")
)
