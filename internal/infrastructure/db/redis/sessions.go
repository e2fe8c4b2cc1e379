package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache mirrors each principal's current session identifier in Redis
// so the token middleware can run its revocation check without a round trip
// to the durable store. The cache is best-effort: a miss or an error falls
// through to the principal record.
// Key format: session:<username>
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
// Entries expire after ttl, which should match the token TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

// Put records the principal's current session id, overwriting any prior one.
func (s *SessionCache) Put(ctx context.Context, username, sessionID string) error {
	return s.client.Set(ctx, s.key(username), sessionID, s.ttl).Err()
}

// Get returns the cached session id for username. ok is false on a cache
// miss.
func (s *SessionCache) Get(ctx context.Context, username string) (sessionID string, ok bool, err error) {
	v, err := s.client.Get(ctx, s.key(username)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session cache get: %w", err)
	}
	return v, true, nil
}

func (s *SessionCache) key(username string) string {
	return fmt.Sprintf("session:%s", username)
}
