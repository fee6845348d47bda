package repository

import "errors"

// Sentinel kinds for sink errors.
var (
	ErrUnknownArtifact = errors.New("unknown artifact")
	ErrWrite           = errors.New("sink write failed")
)
