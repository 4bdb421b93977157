package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a Locker backed by client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

var _ Locker = (*RedisLocker)(nil)

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}
	return release, true, nil
}
