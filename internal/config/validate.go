package config

import (
	"fmt"
	"strings"
)

// Validate checks ranges and cross-field requirements.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return invalid("addr must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.RequestTimeout <= 0 {
		return invalid("request_timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return invalid("shutdown_timeout must be positive")
	}
	if c.QueueSize <= 0 {
		return invalid("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.WorkerCount <= 0 {
		return invalid("worker_count must be positive, got %d", c.WorkerCount)
	}
	if err := c.Embedding.validate(); err != nil {
		return err
	}
	return c.Sink.validate()
}

func (e EmbeddingConfig) validate() error {
	switch e.Provider {
	case EmbeddingNone:
		return nil
	case EmbeddingHashing:
		if e.Dimensions <= 0 {
			return invalid("embedding.dimensions must be positive")
		}
	case EmbeddingHTTP:
		if e.URL == "" {
			return invalid("embedding.url is required for the http provider")
		}
		if e.RequestsPerSecond <= 0 || e.BatchSize <= 0 || e.Timeout <= 0 {
			return invalid("embedding.requests_per_second, batch_size and timeout must be positive")
		}
	default:
		return invalid("unknown embedding.provider %q", e.Provider)
	}
	return nil
}

func (s SinkConfig) validate() error {
	for _, kind := range s.Kinds() {
		switch kind {
		case SinkFile:
			if s.Dir == "" {
				return invalid("sink.dir is required for the file sink")
			}
		case SinkMinIO:
			if s.MinIO.Endpoint == "" || s.MinIO.Bucket == "" {
				return invalid("sink.minio.endpoint and sink.minio.bucket are required")
			}
		case SinkRedis:
			if s.Redis.Addr == "" {
				return invalid("sink.redis.addr is required")
			}
		default:
			return invalid("unknown sink kind %q", kind)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
