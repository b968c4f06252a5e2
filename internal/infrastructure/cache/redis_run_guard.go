package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dormbill/backend/internal/domain/shared"
)

// RedisRunGuardStore implements RunGuardStore using Redis. Suitable for
// deployments where multiple instances share the scheduled-run state.
type RedisRunGuardStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunGuardStore creates a new Redis-backed run guard store
func NewRedisRunGuardStore(cfg RedisConfig) (*RedisRunGuardStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunGuardStore{
		client:    client,
		keyPrefix: "scheduler:run:",
	}, nil
}

// NewRedisRunGuardStoreWithClient creates a store with an existing Redis client
func NewRedisRunGuardStoreWithClient(client *redis.Client, keyPrefix string) *RedisRunGuardStore {
	if keyPrefix == "" {
		keyPrefix = "scheduler:run:"
	}
	return &RedisRunGuardStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed claims a run key with a TTL using SETNX so exactly one
// instance wins each scheduled slot.
func (s *RedisRunGuardStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim run key: %w", err)
	}
	return claimed, nil
}

// IsProcessed checks whether a run key is currently claimed
func (s *RedisRunGuardStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check run key: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisRunGuardStore) Close() error {
	return s.client.Close()
}

var _ shared.RunGuardStore = (*RedisRunGuardStore)(nil)
