package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/skillpulse/internal/adapters/dataset"
	"github.com/okian/skillpulse/internal/adapters/embedding"
	"github.com/okian/skillpulse/internal/adapters/repository"
	service "github.com/okian/skillpulse/internal/app"
	"github.com/okian/skillpulse/internal/config"
	"github.com/okian/skillpulse/pkg/logger"
)

// newService builds the service and its adapters from cfg. The caller starts it.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	sink, err := newSink(ctx, cfg.Sink, log)
	if err != nil {
		return nil, err
	}
	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithShutdownTimeout(cfg.ShutdownTimeout),
		service.WithLoader(newLoader(cfg.Dataset, log)),
		service.WithEmbedder(newEmbedder(cfg.Embedding)),
	}
	if sink != nil {
		opts = append(opts, service.WithSink(sink))
	}
	return service.New(opts...), nil
}

func newLoader(cfg config.DatasetConfig, log logger.Logger) *dataset.Loader {
	var sources []dataset.Source
	if cfg.CSVPath != "" {
		sources = append(sources, dataset.NewCSVSource(cfg.CSVPath))
	}
	if cfg.SQLitePath != "" {
		sources = append(sources, dataset.NewSQLiteSource(cfg.SQLitePath))
	}
	if cfg.PostgresURL != "" {
		sources = append(sources, dataset.NewPostgresSource(cfg.PostgresURL))
	}
	return dataset.NewLoader(
		dataset.WithSources(sources...),
		dataset.WithLogger(log.Named("dataset")),
	)
}

func newEmbedder(cfg config.EmbeddingConfig) service.Embedder {
	switch cfg.Provider {
	case config.EmbeddingHashing:
		return embedding.NewHashing(cfg.Dimensions)
	case config.EmbeddingHTTP:
		return embedding.NewHTTP(cfg.URL,
			embedding.WithModel(cfg.Model),
			embedding.WithAPIKey(cfg.APIKey),
			embedding.WithBatchSize(cfg.BatchSize),
			embedding.WithRateLimit(cfg.RequestsPerSecond),
			embedding.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
	default:
		return embedding.Unavailable{}
	}
}

// newSink returns nil when no sink is configured.
func newSink(ctx context.Context, cfg config.SinkConfig, log logger.Logger) (repository.Sink, error) {
	kinds := cfg.Kinds()
	if len(kinds) == 0 {
		return nil, nil
	}
	sinks := make([]repository.Sink, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case config.SinkFile:
			sinks = append(sinks, repository.NewFileSink(cfg.Dir))
		case config.SinkMinIO:
			s, err := repository.NewMinIOSink(ctx, repository.MinIOConfig{
				Endpoint:  cfg.MinIO.Endpoint,
				AccessKey: cfg.MinIO.AccessKey,
				SecretKey: cfg.MinIO.SecretKey,
				Bucket:    cfg.MinIO.Bucket,
				Prefix:    cfg.MinIO.Prefix,
				UseSSL:    cfg.MinIO.UseSSL,
			})
			if err != nil {
				return nil, fmt.Errorf("minio sink: %w", err)
			}
			sinks = append(sinks, s)
		case config.SinkRedis:
			s, err := repository.NewRedisSink(ctx, repository.RedisConfig{
				Addr:      cfg.Redis.Addr,
				Password:  cfg.Redis.Password,
				DB:        cfg.Redis.DB,
				KeyPrefix: cfg.Redis.KeyPrefix,
				TTL:       cfg.Redis.TTL,
			})
			if err != nil {
				return nil, fmt.Errorf("redis sink: %w", err)
			}
			sinks = append(sinks, s)
		default:
			return nil, fmt.Errorf("unknown sink kind %q", kind)
		}
	}
	return repository.NewFanOut(sinks, repository.WithLogger(log.Named("sink"))), nil
}
