package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
)

// RedisStore keeps the snapshot under a namespaced key, suitable for
// kiosk fleets that share a cache tier and want a session to survive a
// device swap. A zero TTL keeps the document until Clear.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore dials Redis and verifies the connection before
// returning the store.
func NewRedisStore(cfg config.RedisConfig, keyPrefix, profile string, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("snapshot: connect to redis at %s: %w", cfg.Addr(), err)
	}
	return NewRedisStoreWithClient(client, keyPrefix, profile, ttl, logger)
}

// NewRedisStoreWithClient wraps an existing client, useful for tests
// or when sharing a connection pool across components. The store takes
// ownership: Close closes the client.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix, profile string, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("snapshot: redis client is required")
	}
	if profile == "" {
		return nil, errors.New("snapshot: profile is required")
	}
	if keyPrefix == "" {
		keyPrefix = "commerce"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s:snapshot:%s", keyPrefix, profile),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Load reads the profile's document. A missing key means no snapshot.
func (s *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: load %s: %w", s.key, err)
	}
	return decodeDocument(raw, s.logger), nil
}

// Save replaces the profile's document, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	doc, err := encodeDocument(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, doc, s.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", s.key, err)
	}
	return nil
}

// Clear deletes the profile's key. Clearing an absent snapshot is a
// no-op.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("snapshot: clear %s: %w", s.key, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
