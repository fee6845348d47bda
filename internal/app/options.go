package service

import (
	"time"

	"github.com/okian/skillpulse/internal/adapters/repository"
	"github.com/okian/skillpulse/internal/domain/clustering"
	"github.com/okian/skillpulse/internal/domain/forecast"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of clustering workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending clustering jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader sets where the dataset snapshot is loaded from at Start.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithRecords uses a fixed snapshot instead of a loader.
func WithRecords(records []model.JobRecord) Option {
	return func(s *Service) {
		s.loader = staticLoader(records)
	}
}

// WithEmbedder sets the embedding provider.
func WithEmbedder(e Embedder) Option {
	return func(s *Service) {
		if e != nil {
			s.embedder = e
		}
	}
}

// WithSink sets where emerging-skill candidates are persisted.
func WithSink(sink repository.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithForecastOptions passes options through to the forecaster.
func WithForecastOptions(opts ...forecast.Option) Option {
	return func(s *Service) {
		s.forecastOpts = append(s.forecastOpts, opts...)
	}
}

// WithClusteringOptions passes options through to the clusterer.
func WithClusteringOptions(opts ...clustering.Option) Option {
	return func(s *Service) {
		s.clusterOpts = append(s.clusterOpts, opts...)
	}
}

// WithShutdownTimeout bounds how long Stop waits for workers and writes.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}
