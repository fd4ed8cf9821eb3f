package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("lock not acquired")
	ErrLockNotHeld     = errors.New("lock not held")
)

const DefaultLockPrefix = "fern:lock:"

// unlock deletes the key only while it still carries our token, so an
// expired lock re-taken by another replica is never released by us.
var unlock = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

// Locker serializes imports of one traveler across replicas with SETNX
// leases. ttl bounds how long a crashed holder blocks others; wait bounds
// how long Lock polls before giving up.
type Locker struct {
	client *Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

func NewLocker(client *Client, prefix string, ttl, wait time.Duration) *Locker {
	if prefix == "" {
		prefix = DefaultLockPrefix
	}
	return &Locker{client: client, prefix: prefix, ttl: ttl, wait: wait}
}

// Lock takes the lease on key, polling with capped exponential backoff
// until wait elapses, and returns the function that gives it back.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	backoff := 10 * time.Millisecond

	for {
		ok, err := l.client.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff = min(backoff*2, 500*time.Millisecond)
		}
	}

	log := l.client.logger.WithContext(ctx).WithField("lock", redisKey)
	log.Debug("lock acquired")

	return func() {
		// the import context may already be cancelled
		ctx := context.WithoutCancel(ctx)
		if err := l.release(ctx, redisKey, token); err != nil {
			log.WithError(err).Warn("failed to release lock")
		}
	}, nil
}

func (l *Locker) release(ctx context.Context, redisKey, token string) error {
	deleted, err := unlock.Run(ctx, l.client.rdb, []string{redisKey}, token).Int64()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// NoopLocker is used when Redis is disabled. A single replica needs no
// cross-process lock.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
