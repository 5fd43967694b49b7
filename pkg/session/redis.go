package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultTTL is how long an idle session record survives. Refreshed on every
// save, so active sessions never expire in practice.
const DefaultTTL = 180 * 24 * time.Hour

// RedisStore is the durable Store implementation backed by Redis. Records
// are JSON-encoded under a "session:" prefix.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection. A
// non-positive ttl falls back to DefaultTTL.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) key(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Load fetches the record for sid. Unknown ids yield a zero record, so first
// contact looks like an empty, unauthenticated session.
func (s *RedisStore) Load(ctx context.Context, sid string) (Record, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return Record{}, nil
	} else if err != nil {
		return Record{}, fmt.Errorf("redis get failed: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// Corrupt data is dropped rather than surfaced forever.
		s.client.Del(ctx, s.key(sid))
		return Record{}, fmt.Errorf("failed to unmarshal session record: %w", err)
	}
	return rec, nil
}

// Save replaces the record for sid and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sid string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Client exposes the underlying Redis client for health checks.
func (s *RedisStore) Client() *redis.Client { return s.client }

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }
