package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes operations on a shared resource across processes.
// Acquire returns a release func; releasing a lock another holder has since
// taken over (after TTL expiry) is a no-op.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// ErrLockHeld is returned when the lock is already taken.
var ErrLockHeld = fmt.Errorf("lock already held")

// Lua script for safe release: only the holder that set the token may
// delete the key, so an expired-and-reacquired lock is never released by
// the stale holder.
const luaCompareAndDelete = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLocker implements Locker with SET NX and a compare-and-delete
// release script.
type RedisLocker struct {
	client        *redis.Client
	releaseScript *redis.Script
}

// NewRedisLocker creates a Redis-backed locker
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client:        client,
		releaseScript: redis.NewScript(luaCompareAndDelete),
	}
}

// Acquire takes the lock or fails immediately with ErrLockHeld.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		// Best effort; the TTL reclaims the lock if this fails.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
