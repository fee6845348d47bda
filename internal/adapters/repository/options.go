package repository

import "github.com/okian/skillpulse/pkg/logger"

// Option applies a configuration option to a FanOut.
type Option func(*FanOut)

// WithLogger sets the logger used to report failed writes.
func WithLogger(l logger.Logger) Option {
	return func(f *FanOut) {
		if l != nil {
			f.log = l
		}
	}
}
