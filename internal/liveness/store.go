package liveness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// ErrStoreUnavailable indicates that the liveness store could not be reached.
var ErrStoreUnavailable = errors.New("liveness store unavailable")

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// Store is the client interface for the token liveness store.
type Store interface {
	// Exists reports whether the key is present in the store.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the key from the store. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Set inserts the key with a time-to-live. Used by sign-in and refresh
	// rotation flows.
	Set(ctx context.Context, key string, ttl time.Duration) error

	// Close closes the store connection.
	Close() error
}

// redisStore implements Store backed by Redis.
type redisStore struct {
	client *redis.Client
	logger observability.Logger
}

// New creates a Store from configuration and verifies connectivity.
func New(cfg *config.LivenessConfig, logger observability.Logger) (Store, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("liveness store URL is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid liveness store URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.ConnectTimeout.Duration()
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout.Duration()
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout.Duration()
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	logger.Info("liveness store connected",
		observability.String("addr", opts.Addr))

	return &redisStore{client: client, logger: logger}, nil
}

// NewWithClient creates a Store from an existing Redis client.
func NewWithClient(client *redis.Client, logger observability.Logger) Store {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &redisStore{client: client, logger: logger}
}

// Exists reports whether the key is present in the store.
func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Delete removes the key from the store.
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Set inserts the key with a time-to-live.
func (s *redisStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the store connection.
func (s *redisStore) Close() error {
	return s.client.Close()
}

// Ensure redisStore implements Store.
var _ Store = (*redisStore)(nil)
