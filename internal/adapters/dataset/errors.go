package dataset

import "errors"

var (
	// ErrParse is returned when a source's content cannot be decoded.
	ErrParse = errors.New("dataset parse failed")
	// ErrQuery is returned when a database source cannot be read.
	ErrQuery = errors.New("dataset query failed")
)
