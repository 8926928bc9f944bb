package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProgressStore holds the small TTL'd string fields the job engine publishes:
// status, progress, total, intermediate_version. Every write carries its own
// TTL so zombie jobs self-evict per spec.
type ProgressStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
}

type memEntry struct {
	value   string
	expires time.Time
}

// MemProgressStore is an in-memory ProgressStore with lazy TTL expiry, the
// default when no Redis endpoint is configured and the implementation used
// by tests.
type MemProgressStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewMemProgressStore returns an empty in-memory progress store.
func NewMemProgressStore() *MemProgressStore {
	return &MemProgressStore{entries: make(map[string]memEntry)}
}

// Set stores value under key with the given TTL (zero means no expiry).
func (m *MemProgressStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.entries[key] = memEntry{value: value, expires: expires}
	return nil
}

// Get returns the value stored under key, or (ok=false) if absent or
// expired.
func (m *MemProgressStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		return "", false, nil
	}
	return e.value, true, nil
}

// RedisConfig configures a Redis-backed ProgressStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisProgressStore is a ProgressStore backed by Redis, matching the
// original backend's use of a Redis-compatible pool for job status keys.
type RedisProgressStore struct {
	client *redis.Client
}

// NewRedisProgressStore dials a Redis client per cfg. Dialing is lazy;
// connectivity is only verified on first use.
func NewRedisProgressStore(cfg RedisConfig) *RedisProgressStore {
	return &RedisProgressStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Set stores value under key via SET with ttl as its expiry (no expiry when
// ttl is zero).
func (r *RedisProgressStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

// Get reads key, returning (ok=false) if it does not exist.
func (r *RedisProgressStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: redis get %s: %w", key, err)
	}
	return val, true, nil
}
