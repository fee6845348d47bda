// Package dataset loads the job-posting snapshot from the first source that
// has data.
package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
	"github.com/okian/skillpulse/pkg/metrics"
)

// SourceNone names an empty snapshot.
const SourceNone = "none"

// Source produces job postings. Missing backing storage is reported as no
// records rather than an error.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.JobRecord, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithSources appends sources in priority order.
func WithSources(sources ...Source) Option {
	return func(l *Loader) {
		for _, s := range sources {
			if s != nil {
				l.sources = append(l.sources, s)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader tries sources in order.
type Loader struct {
	sources []Source
	log     logger.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{log: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the records of the first source that yields any, with that
// source's name. Failing sources are logged and skipped. When every source is
// empty the snapshot is empty and the name is SourceNone.
func (l *Loader) Load(ctx context.Context) ([]model.JobRecord, string, error) {
	for _, src := range l.sources {
		start := time.Now()
		records, err := src.Load(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, "", err
			}
			l.log.Warn(ctx, "dataset source failed, trying next",
				logger.String("source", src.Name()),
				logger.Error(err))
			continue
		}
		if len(records) == 0 {
			l.log.Debug(ctx, "dataset source empty", logger.String("source", src.Name()))
			continue
		}
		l.log.Info(ctx, "dataset loaded",
			logger.String("source", src.Name()),
			logger.Int("records", len(records)),
			logger.Duration("took", time.Since(start)))
		metrics.UpdateDatasetRecords(src.Name(), len(records))
		return records, src.Name(), nil
	}
	l.log.Warn(ctx, "no dataset source has records; serving fallbacks")
	metrics.UpdateDatasetRecords(SourceNone, 0)
	return nil, SourceNone, nil
}
