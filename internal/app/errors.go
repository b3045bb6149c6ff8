package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrEntityNotFound = errors.New("entity not found")
	ErrNoFetcher      = errors.New("no upstream fetcher configured")
)
