package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	eventqueue "github.com/okian/skillpulse/internal/adapters/mq/queue"
	workerpool "github.com/okian/skillpulse/internal/adapters/mq/worker"
	"github.com/okian/skillpulse/internal/adapters/repository"
	"github.com/okian/skillpulse/internal/domain/emergence"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/internal/domain/phrases"
	"github.com/okian/skillpulse/pkg/logger"
	"github.com/okian/skillpulse/pkg/metrics"
)

// Cluster size bounds accepted by EmergingSkills.
const (
	MinClusterSize     = 2
	MaxClusterSize     = 10
	DefaultClusterSize = 3
)

// Paths recorded for emerging runs.
const (
	pathModel    = "model"
	pathFallback = "fallback"
)

// EmergingSkills detects emerging skills by clustering description phrases.
// Missing data or embeddings yield the fixed fallback list; a full job queue
// yields ErrBackpressure.
func (s *Service) EmergingSkills(ctx context.Context, minClusterSize int) (model.EmergingSkills, error) {
	if minClusterSize < MinClusterSize || minClusterSize > MaxClusterSize {
		return model.EmergingSkills{}, fmt.Errorf("min_cluster_size=%d: %w", minClusterSize, ErrInvalidClusterSize)
	}

	s.mu.RLock()
	started, records, embedder, q := s.started, s.records, s.embedder, s.queue
	s.mu.RUnlock()
	if !started {
		return model.EmergingSkills{}, ErrNotStarted
	}

	if len(records) == 0 {
		return s.fallback(ctx, "empty dataset"), nil
	}
	if !embedder.Available() {
		return s.fallback(ctx, "embedder unavailable"), nil
	}
	candidates := phrases.Extract(records)
	metrics.RecordPhrasesExtracted(len(candidates))
	if len(candidates) == 0 {
		return s.fallback(ctx, "no phrases"), nil
	}

	job := model.ClusterJob{
		ID:             uuid.NewString(),
		Phrases:        candidates,
		MinClusterSize: minClusterSize,
		Result:         make(chan model.ClusterResult, 1),
	}
	if deadline, ok := ctx.Deadline(); ok {
		job.Deadline = deadline
	}
	if err := q.Enqueue(ctx, job); err != nil {
		switch {
		case errors.Is(err, eventqueue.ErrFull):
			return model.EmergingSkills{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		case errors.Is(err, eventqueue.ErrClosed):
			return model.EmergingSkills{}, ErrNotStarted
		default:
			return model.EmergingSkills{}, err
		}
	}

	var res model.ClusterResult
	select {
	case res = <-job.Result:
	case <-ctx.Done():
		return model.EmergingSkills{}, fmt.Errorf("job %s: %w", job.ID, ctx.Err())
	}
	if res.Err != nil {
		if errors.Is(res.Err, workerpool.ErrEncode) {
			return s.fallback(ctx, "encode failed"), nil
		}
		return model.EmergingSkills{}, res.Err
	}

	skills := emergence.Score(res.Clusters, records)
	metrics.RecordEmergingRun(pathModel)
	metrics.UpdateEmergingCandidates(len(skills))
	s.logger.Debug(ctx, "emerging skills scored",
		logger.String("job_id", job.ID),
		logger.Int("phrases", len(candidates)),
		logger.Int("clusters", len(res.Clusters)),
		logger.Int("candidates", len(skills)))

	s.persist(ctx, skills)
	return model.EmergingSkills{EmergingSkills: skills, TotalCandidates: len(skills)}, nil
}

func (s *Service) fallback(ctx context.Context, reason string) model.EmergingSkills {
	s.logger.Debug(ctx, "using fallback emerging skills", logger.String("reason", reason))
	metrics.RecordEmergingRun(pathFallback)
	skills := emergence.Fallback()
	return model.EmergingSkills{EmergingSkills: skills, TotalCandidates: len(skills)}
}

// persist writes raw and curated candidates in the background. Stop waits
// for these writes.
func (s *Service) persist(ctx context.Context, skills []model.EmergingSkill) {
	s.mu.RLock()
	sink, timeout := s.sink, s.shutdownTimeout
	if sink == nil || !s.started {
		s.mu.RUnlock()
		return
	}
	s.writes.Add(1)
	s.mu.RUnlock()

	curated := emergence.Curate(skills)
	metrics.AddSinkWritesInFlight(1)
	go func() {
		defer s.writes.Done()
		defer metrics.AddSinkWritesInFlight(-1)

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		var g errgroup.Group
		g.Go(func() error { return sink.Write(wctx, repository.ArtifactRaw, skills) })
		g.Go(func() error { return sink.Write(wctx, repository.ArtifactCurated, curated) })
		if err := g.Wait(); err != nil {
			s.logger.Warn(wctx, "persisting emerging skills failed",
				logger.String("sink", sink.Name()),
				logger.Error(err))
		}
	}()
}
