package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/skillpulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLPULSE_ADDR", ":8080")
			_ = os.Setenv("SKILLPULSE_QUEUE_SIZE", "128")
			_ = os.Setenv("SKILLPULSE_WORKER_COUNT", "16")
			_ = os.Setenv("SKILLPULSE_REQUEST_TIMEOUT", "5s")
			_ = os.Setenv("SKILLPULSE_DATASET__POSTGRES_URL", "postgres://localhost/jobs")
			_ = os.Setenv("SKILLPULSE_SINK__REDIS__ADDR", "localhost:6379")
			_ = os.Setenv("SKILLPULSE_SINK__KIND", "file,redis")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults, including nested keys", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 128)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Dataset.PostgresURL, convey.ShouldEqual, "postgres://localhost/jobs")
				convey.So(cfg.Dataset.CSVPath, convey.ShouldEqual, "data/processed/clean_jobs.csv")
				convey.So(cfg.Sink.Redis.Addr, convey.ShouldEqual, "localhost:6379")
				convey.So(cfg.Sink.Redis.KeyPrefix, convey.ShouldEqual, "skillpulse:emerging:")
				convey.So(cfg.Sink.Kinds(), convey.ShouldResemble, []string{"file", "redis"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 300
worker_count: 24
request_timeout: 10s
embedding:
  provider: http
  url: http://localhost:8081/v1
  model: all-MiniLM-L6-v2
sink:
  kind: minio
  minio:
    endpoint: localhost:9000
    bucket: skills
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("SKILLPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(cfg.Embedding.Provider, convey.ShouldEqual, config.EmbeddingHTTP)
				convey.So(cfg.Embedding.URL, convey.ShouldEqual, "http://localhost:8081/v1")
				convey.So(cfg.Embedding.BatchSize, convey.ShouldEqual, 64) // From defaults
				convey.So(cfg.Sink.MinIO.Endpoint, convey.ShouldEqual, "localhost:9000")
				convey.So(cfg.Sink.MinIO.Bucket, convey.ShouldEqual, "skills")
				convey.So(cfg.Sink.MinIO.Prefix, convey.ShouldEqual, "emerging/") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nworker_count: 24\nqueue_size: 300\n")
			_ = os.Setenv("SKILLPULSE_CONFIG", tmpFile)
			_ = os.Setenv("SKILLPULSE_ADDR", ":8080")
			_ = os.Setenv("SKILLPULSE_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")   // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)  // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("SKILLPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SKILLPULSE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SKILLPULSE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SKILLPULSE_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with zero workers", func() {
			_ = os.Setenv("SKILLPULSE_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestLoadDotEnv(t *testing.T) {
	convey.Convey("Given a .env file", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()
		path := filepath.Join(t.TempDir(), ".env")
		convey.So(os.WriteFile(path, []byte("SKILLPULSE_ADDR=:7070\nSKILLPULSE_QUEUE_SIZE=12\n"), 0o600), convey.ShouldBeNil)

		convey.Convey("When a variable is already set", func() {
			_ = os.Setenv("SKILLPULSE_QUEUE_SIZE", "99")
			convey.So(config.LoadDotEnv(path), convey.ShouldBeNil)

			cfg, err := config.Load(context.Background())

			convey.Convey("Then the file fills gaps without overriding", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 99)
			})
		})

		convey.Convey("When the file does not exist", func() {
			convey.So(config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")), convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SKILLPULSE_CONFIG",
		"SKILLPULSE_ADDR",
		"SKILLPULSE_QUEUE_SIZE",
		"SKILLPULSE_WORKER_COUNT",
		"SKILLPULSE_REQUEST_TIMEOUT",
		"SKILLPULSE_DATASET__POSTGRES_URL",
		"SKILLPULSE_SINK__REDIS__ADDR",
		"SKILLPULSE_SINK__KIND",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "skillpulse-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
