package embedding

import "errors"

var (
	// ErrUnavailable is returned by providers that cannot encode.
	ErrUnavailable = errors.New("embedding provider unavailable")
	// ErrBadResponse is returned when a remote provider answers with an
	// unexpected status or shape.
	ErrBadResponse = errors.New("embedding provider bad response")
)
