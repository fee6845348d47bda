// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load layers an optional YAML file and SKILLPULSE_ env vars on top.
//   - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"runtime"
	"strings"
	"time"
)

// Embedding provider names.
const (
	EmbeddingNone    = "none"
	EmbeddingHashing = "hashing"
	EmbeddingHTTP    = "http"
)

// Sink kinds.
const (
	SinkNone  = "none"
	SinkFile  = "file"
	SinkMinIO = "minio"
	SinkRedis = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// RequestTimeout bounds every API request, including clustering.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown, including pending sink writes.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// QueueSize bounds the in-memory cluster job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of clustering workers.
	WorkerCount int `koanf:"worker_count"`

	Dataset   DatasetConfig   `koanf:"dataset"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Sink      SinkConfig      `koanf:"sink"`
}

// DatasetConfig lists the job-posting sources, tried in order.
type DatasetConfig struct {
	CSVPath     string `koanf:"csv_path"`
	SQLitePath  string `koanf:"sqlite_path"`
	PostgresURL string `koanf:"postgres_url"`
}

// EmbeddingConfig selects and tunes the phrase embedding provider.
type EmbeddingConfig struct {
	Provider          string        `koanf:"provider"`
	Dimensions        int           `koanf:"dimensions"`
	URL               string        `koanf:"url"`
	Model             string        `koanf:"model"`
	APIKey            string        `koanf:"api_key"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	BatchSize         int           `koanf:"batch_size"`
	Timeout           time.Duration `koanf:"timeout"`
}

// SinkConfig selects where emerging-skill candidate lists are written.
type SinkConfig struct {
	// Kind is a comma separated list of sinks: file, minio, redis or none.
	Kind  string      `koanf:"kind"`
	Dir   string      `koanf:"dir"`
	MinIO MinIOConfig `koanf:"minio"`
	Redis RedisConfig `koanf:"redis"`
}

// Kinds returns the normalized, de-duplicated sink kinds.
func (s SinkConfig) Kinds() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, k := range strings.Split(s.Kind, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || k == SinkNone {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// MinIOConfig configures the S3-compatible object sink.
type MinIOConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// RedisConfig configures the Redis sink.
type RedisConfig struct {
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8000",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		QueueSize:       64,
		WorkerCount:     runtime.NumCPU(),
		Dataset: DatasetConfig{
			CSVPath:    "data/processed/clean_jobs.csv",
			SQLitePath: "data/jobs.db",
		},
		Embedding: EmbeddingConfig{
			Provider:          EmbeddingHashing,
			Dimensions:        384,
			Model:             "all-MiniLM-L6-v2",
			RequestsPerSecond: 5,
			BatchSize:         64,
			Timeout:           15 * time.Second,
		},
		Sink: SinkConfig{
			Kind: SinkFile,
			Dir:  "data/processed",
			MinIO: MinIOConfig{
				Bucket: "skillpulse",
				Prefix: "emerging/",
			},
			Redis: RedisConfig{
				KeyPrefix: "skillpulse:emerging:",
			},
		},
	}
}
