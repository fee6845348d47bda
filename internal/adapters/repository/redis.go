package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/skillpulse/internal/domain/model"
)

// setter is the subset of redis.Cmdable the sink uses.
type setter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisConfig holds connection settings for the Redis sink.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL of zero keeps keys forever.
	TTL time.Duration
}

// RedisSink stores each artifact as a JSON array under one key.
type RedisSink struct {
	client    setter
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSink connects and pings the server.
func NewRedisSink(ctx context.Context, cfg RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return newRedisSink(client, cfg.KeyPrefix, cfg.TTL), nil
}

func newRedisSink(client setter, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, keyPrefix: prefix, ttl: ttl}
}

// Name implements Sink.
func (s *RedisSink) Name() string { return "redis" }

// Key returns the key an artifact is stored under.
func (s *RedisSink) Key(artifact string) string { return s.keyPrefix + artifact }

// Write implements Sink.
func (s *RedisSink) Write(ctx context.Context, artifact string, rows []model.EmergingSkill) error {
	if err := checkArtifact(artifact); err != nil {
		return err
	}
	if rows == nil {
		rows = []model.EmergingSkill{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", artifact, err)
	}
	if err := s.client.Set(ctx, s.Key(artifact), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrWrite, s.Key(artifact), err)
	}
	return nil
}
