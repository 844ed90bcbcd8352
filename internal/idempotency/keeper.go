// Package idempotency remembers which order a client-supplied Idempotency-Key
// produced, so a retried checkout returns the first order instead of placing
// a second one.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "idempotency:checkout:"

	// statusInProgress marks a key whose checkout has not finished yet.
	statusInProgress = "IN_PROGRESS"
)

// releaseScript deletes the key only while it is still in progress, so a late
// failure cannot wipe a completed entry.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrInProgress is returned by Reserve when another request holds the key.
var ErrInProgress = errors.New("idempotent request in progress")

// Keeper stores key -> order id entries in Redis with a TTL.
type Keeper struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewKeeper dials Redis and pings it before returning.
func NewKeeper(addr, password string, db int, ttl time.Duration) (*Keeper, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Keeper{rdb: rdb, ttl: ttl}, nil
}

func (k *Keeper) Close() error {
	return k.rdb.Close()
}

func redisKey(scope, key string) string {
	return keyPrefix + scope + ":" + key
}

// Reserve claims key for scope. It returns the stored order id when the key
// already completed, ErrInProgress when a concurrent request holds it, and
// ("", nil) when the caller now owns the key.
func (k *Keeper) Reserve(ctx context.Context, scope, key string) (string, error) {
	rk := redisKey(scope, key)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := k.rdb.SetNX(ctx, rk, statusInProgress, k.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return "", nil
		}

		val, err := k.rdb.Get(ctx, rk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read idempotency key: %w", err)
		}
		if val == statusInProgress {
			return "", ErrInProgress
		}
		return val, nil
	}
	return "", ErrInProgress
}

// Complete records the order produced under key.
func (k *Keeper) Complete(ctx context.Context, scope, key, orderID string) error {
	if err := k.rdb.Set(ctx, redisKey(scope, key), orderID, k.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release frees a key whose checkout failed so the client may retry.
func (k *Keeper) Release(ctx context.Context, scope, key string) error {
	if err := releaseScript.Run(ctx, k.rdb, []string{redisKey(scope, key)}, statusInProgress).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
