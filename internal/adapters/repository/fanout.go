package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
	"github.com/okian/skillpulse/pkg/metrics"
)

// FanOut writes to every configured sink and records per-sink metrics.
// A failing sink does not stop the others; all errors are joined.
type FanOut struct {
	sinks []Sink
	log   logger.Logger
}

// NewFanOut creates a FanOut over sinks.
func NewFanOut(sinks []Sink, opts ...Option) *FanOut {
	f := &FanOut{sinks: sinks, log: logger.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements Sink.
func (f *FanOut) Name() string { return "fanout" }

// Len returns the number of sinks.
func (f *FanOut) Len() int { return len(f.sinks) }

// Write implements Sink.
func (f *FanOut) Write(ctx context.Context, artifact string, rows []model.EmergingSkill) error {
	var errs []error
	for _, s := range f.sinks {
		start := time.Now()
		err := s.Write(ctx, artifact, rows)
		if err != nil {
			metrics.RecordSinkError(s.Name(), artifact)
			f.log.Warn(ctx, "sink write failed",
				logger.String("sink", s.Name()),
				logger.String("artifact", artifact),
				logger.Error(err))
			errs = append(errs, err)
			continue
		}
		metrics.RecordSinkWrite(s.Name(), artifact, time.Since(start))
		f.log.Debug(ctx, "sink write done",
			logger.String("sink", s.Name()),
			logger.String("artifact", artifact),
			logger.Int("rows", len(rows)))
	}
	return errors.Join(errs...)
}
