package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const retryInterval = 50 * time.Millisecond

// releaseScript deletes the lock only if it still carries our token, so an
// expired holder cannot release a lock someone else has since acquired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	rdb  *redis.Client
	ttl  time.Duration
	wait time.Duration
}

// NewRedisLocker returns a Locker shared by every replica using rdb. ttl bounds
// how long a crashed holder can keep a conversation locked.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) Locker {
	return &redisLocker{rdb: rdb, ttl: ttl, wait: wait}
}

func (l *redisLocker) lockKey(key string) string { return fmt.Sprintf("lock:%s", key) }

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.lockKey(key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("could not acquire lock %q: %w", key, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					// The request context may already be done; release regardless.
					if err := releaseScript.Run(context.Background(), l.rdb, []string{k}, token).Err(); err != nil {
						slog.Warn("Failed to release lock", "key", key, "error", err)
					}
				})
			}, nil
		}

		if !time.Now().Before(deadline) {
			return nil, ErrTimeout
		}
		select {
		case <-time.After(retryInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
