package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrBackpressure       = errors.New("clustering queue full")
	ErrInvalidClusterSize = errors.New("invalid minimum cluster size")
	ErrInvalidLimit       = errors.New("invalid limit")
)
