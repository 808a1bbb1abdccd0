package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only if it is still held by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements a single-instance redis lock (SET NX PX + token check).
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	poll   time.Duration
	logger *zap.Logger
}

// NewRedis creates a redis-backed locker. ttl bounds how long a crashed
// holder can keep a key locked.
func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: "ledger:lock:",
		ttl:    ttl,
		poll:   25 * time.Millisecond,
		logger: logger,
	}
}

// Lock polls until the key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := l.prefix + key

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &domain.ErrExternalService{Service: "redis", Err: fmt.Errorf("acquire lock %s: %w", key, err)}
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}

	return func() {
		// Release on a fresh context so a cancelled request still frees the key.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("redis lock: release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Ping checks the redis connection.
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
