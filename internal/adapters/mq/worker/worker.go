// Package worker runs clustering jobs taken off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/skillpulse/internal/adapters/mq/queue"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
	"github.com/okian/skillpulse/pkg/metrics"
)

const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Embedding outcomes recorded in metrics.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Job is what workers read off the queue.
type Job = queue.Job

// Embedder turns phrases into vectors.
type Embedder interface {
	Name() string
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Clusterer groups phrases by their vectors.
type Clusterer interface {
	Cluster(ctx context.Context, phrases []string, vectors [][]float64, minSize int) ([]model.PhraseCluster, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes clustering jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	embedder  Embedder
	clusterer Clusterer
	name      string
	activity  func(delta int)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, embedder Embedder, clusterer Clusterer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		embedder:  embedder,
		clusterer: clusterer,
		name:      "worker",
		activity:  func(int) {},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.activity(1)
			res := w.process(ctx, job)
			w.activity(-1)
			reply(job, res)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process embeds and clusters one job. Errors are returned in the result.
func (w *InMemoryWorker) process(ctx context.Context, job Job) model.ClusterResult {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(time.Since(start))
	}()

	res := model.ClusterResult{JobID: job.ID}
	if !job.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, job.Deadline)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("job %s: %w", job.ID, err)
		return res
	}

	vectors, err := w.embedder.Encode(ctx, job.Phrases)
	if err != nil {
		metrics.RecordEmbeddingRequest(w.embedder.Name(), outcomeError)
		metrics.RecordWorkerError()
		w.logger.Warn(ctx, "encode failed",
			logger.String("job_id", job.ID),
			logger.String("provider", w.embedder.Name()),
			logger.Error(err))
		res.Err = fmt.Errorf("%w: %w", ErrEncode, err)
		return res
	}
	metrics.RecordEmbeddingRequest(w.embedder.Name(), outcomeOK)

	clusterStart := time.Now()
	clusters, err := w.clusterer.Cluster(ctx, job.Phrases, vectors, job.MinClusterSize)
	metrics.RecordClusteringLatency(time.Since(clusterStart))
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "clustering failed",
			logger.String("job_id", job.ID),
			logger.Error(err))
		res.Err = fmt.Errorf("job %s: %w", job.ID, err)
		return res
	}

	w.logger.Debug(ctx, "job done",
		logger.String("job_id", job.ID),
		logger.Int("phrases", len(job.Phrases)),
		logger.Int("clusters", len(clusters)),
		logger.Duration("took", time.Since(start)))
	res.Clusters = clusters
	return res
}

// reply delivers the result without blocking; a submitter that gave up is
// expected to have left the buffered slot free.
func reply(job Job, res model.ClusterResult) {
	if job.Result == nil {
		return
	}
	select {
	case job.Result <- res:
	default:
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	active    atomic.Int64
	processed atomic.Int64

	shutdown chan struct{}
	logger   logger.Logger
}

// NewPool creates a worker pool; workerCount < 1 selects runtime.NumCPU().
func NewPool(workerCount int, q Queue, embedder Embedder, clusterer Clusterer, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(
			q, embedder, clusterer,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
			withActivity(p.track),
		)
	}
	p.logger = p.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	p.updateMetrics()
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active returns the number of workers currently running a job.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Processed returns the number of jobs finished since start.
func (p *Pool) Processed() int64 { return p.processed.Load() }

func (p *Pool) track(delta int) {
	p.active.Add(int64(delta))
	if delta < 0 {
		p.processed.Add(1)
	}
	p.updateMetrics()
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	active := p.Active()
	metrics.UpdateWorkerActiveCount(active)
	metrics.UpdateWorkerIdleCount(len(p.workers) - active)
}

// Shutdown closes the queue and waits for every worker to finish its
// current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
