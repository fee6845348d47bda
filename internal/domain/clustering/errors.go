package clustering

import "errors"

var (
	// ErrInvalidMinSize is returned when the minimum cluster size is below 1.
	ErrInvalidMinSize = errors.New("min cluster size must be positive")
	// ErrDimensionMismatch is returned when vectors do not line up with phrases
	// or with each other.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
