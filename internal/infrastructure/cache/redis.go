package cache

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix  = "storefront:lock:"
	eventPrefix = "storefront:event:"
)

// NewRedisClient connects and pings Redis
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// unlockScript deletes the key only if this holder still owns it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a best-effort distributed mutex keyed by name.
type RedisLocker struct {
	rdb    *redis.Client
	holder string
}

// NewRedisLocker creates a locker. Each process gets its own holder token.
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, holder: uuid.NewString()}
}

func (l *RedisLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, lockPrefix+name, l.holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	return ok, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, name string) error {
	if err := unlockScript.Run(ctx, l.rdb, []string{lockPrefix + name}, l.holder).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}

// RedisDeduper remembers webhook event ids across replicas.
type RedisDeduper struct {
	rdb *redis.Client
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, eventPrefix+eventID, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record event %s: %w", eventID, err)
	}
	return ok, nil
}

func (d *RedisDeduper) Forget(ctx context.Context, eventID string) error {
	if err := d.rdb.Del(ctx, eventPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("failed to forget event %s: %w", eventID, err)
	}
	return nil
}

var (
	_ ports.SyncLocker   = (*RedisLocker)(nil)
	_ ports.EventDeduper = (*RedisDeduper)(nil)
)
