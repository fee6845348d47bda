// Package service wires the domain pipeline to its adapters and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/okian/skillpulse/internal/adapters/mq/queue"
	workerpool "github.com/okian/skillpulse/internal/adapters/mq/worker"
	"github.com/okian/skillpulse/internal/adapters/repository"
	"github.com/okian/skillpulse/internal/domain/analytics"
	"github.com/okian/skillpulse/internal/domain/clustering"
	"github.com/okian/skillpulse/internal/domain/forecast"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
	"github.com/okian/skillpulse/pkg/metrics"
)

const (
	defaultQueueSize       = 64
	defaultShutdownTimeout = 30 * time.Second
)

// Loader produces the dataset snapshot and names the source it came from.
type Loader interface {
	Load(ctx context.Context) ([]model.JobRecord, string, error)
}

type staticLoader []model.JobRecord

func (l staticLoader) Load(context.Context) ([]model.JobRecord, string, error) {
	return l, "static", nil
}

// Embedder turns phrases into vectors and reports whether it can.
type Embedder interface {
	workerpool.Embedder
	Available() bool
}

type unavailableEmbedder struct{}

func (unavailableEmbedder) Name() string    { return "none" }
func (unavailableEmbedder) Available() bool { return false }
func (unavailableEmbedder) Encode(context.Context, []string) ([][]float64, error) {
	return nil, fmt.Errorf("no embedder: %w", workerpool.ErrEncode)
}

// Service implements the API dependencies for skill analytics.
type Service struct {
	mu sync.RWMutex

	// Core components
	records    []model.JobRecord
	source     string
	forecaster *forecast.Forecaster
	queue      *eventqueue.InMemoryQueue
	pool       *workerpool.Pool
	loader     Loader
	embedder   Embedder
	sink       repository.Sink

	// Configuration
	workerCount     int
	queueSize       int
	shutdownTimeout time.Duration
	forecastOpts    []forecast.Option
	clusterOpts     []clustering.Option

	// State
	started bool
	cancel  context.CancelFunc
	writes  sync.WaitGroup

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       defaultQueueSize,
		shutdownTimeout: defaultShutdownTimeout,
		loader:          staticLoader(nil),
		embedder:        unavailableEmbedder{},
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset snapshot and starts the clustering workers. The
// workers outlive ctx and stop on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting skillpulse service...")

	records, source, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	s.records = records
	s.source = source
	s.logger.Info(ctx, "dataset loaded",
		logger.String("source", source),
		logger.Int("records", len(records)))

	fopts := append([]forecast.Option{forecast.WithLogger(s.logger.Named("forecast"))}, s.forecastOpts...)
	s.forecaster = forecast.New(records, fopts...)

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.embedder, clustering.New(s.clusterOpts...),
		workerpool.WithPoolLogger(s.logger))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "skillpulse service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("embedder", s.embedder.Name()),
		logger.Any("embedderAvailable", s.embedder.Available()),
	)
	return nil
}

// Stop drains the worker pool and pending writes, then releases resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping skillpulse service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}

	drained := make(chan struct{})
	go func() {
		s.writes.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		s.logger.Warn(ctx, "pending writes did not finish")
	}

	s.cancel()
	s.started = false
	s.logger.Info(ctx, "skillpulse service stopped")
}

// snapshot returns the components needed by request paths.
func (s *Service) snapshot() ([]model.JobRecord, *forecast.Forecaster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.records, s.forecaster, nil
}

// Forecast projects demand for skill over months.
func (s *Service) Forecast(ctx context.Context, skill string, months int) (model.ForecastResult, error) {
	_, f, err := s.snapshot()
	if err != nil {
		return model.ForecastResult{}, err
	}
	return f.Forecast(ctx, skill, months)
}

// TopSkills ranks skills across the dataset.
func (s *Service) TopSkills(_ context.Context, limit int) ([]model.SkillCount, error) {
	if limit < 1 || limit > analytics.MaxTopLimit {
		return nil, fmt.Errorf("limit=%d: %w", limit, ErrInvalidLimit)
	}
	records, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.TopSkills(records, limit), nil
}

// SkillsByLocation ranks skills per location.
func (s *Service) SkillsByLocation(_ context.Context, limit int) ([]model.LocationSkills, error) {
	if limit < 1 || limit > analytics.MaxPerLocationLimit {
		return nil, fmt.Errorf("limit_per_location=%d: %w", limit, ErrInvalidLimit)
	}
	records, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.SkillsByLocation(records, limit), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() model.ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.ServiceStats{
		Started:     s.started,
		WorkerCount: s.workerCount,
		QueueSize:   s.queueSize,
		Embedder:    s.embedder.Name(),
	}
	if s.sink != nil {
		stats.Sink = s.sink.Name()
	}
	if s.started {
		stats.Records = len(s.records)
		stats.DatasetSource = s.source
		stats.QueueLength = s.queue.Len()
		stats.ActiveWorkers = s.pool.Active()
		stats.ProcessedJobs = s.pool.Processed()

		metrics.UpdateQueueSize(stats.QueueLength)
	}
	return stats
}
