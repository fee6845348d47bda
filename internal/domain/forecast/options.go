package forecast

import (
	"time"

	"github.com/okian/skillpulse/pkg/logger"
)

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithClock sets the time source used to date fallback projections.
func WithClock(now func() time.Time) Option {
	return func(f *Forecaster) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Forecaster) {
		if l != nil {
			f.log = l
		}
	}
}

// WithSeasonalPenalty overrides the ridge penalty applied to seasonal terms.
func WithSeasonalPenalty(lambda float64) Option {
	return func(f *Forecaster) {
		if lambda > 0 {
			f.seasonalPenalty = lambda
		}
	}
}
