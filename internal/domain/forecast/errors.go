package forecast

import "errors"

var (
	// ErrInvalidHorizon is returned when months is outside [MinMonths, MaxMonths].
	ErrInvalidHorizon = errors.New("forecast horizon out of range")
	// ErrInsufficientHistory is returned by the model fit when fewer than two points exist.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrFitFailed is returned when the linear system is singular or the output is not finite.
	ErrFitFailed = errors.New("model fit failed")
)
