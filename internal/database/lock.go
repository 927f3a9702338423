package database

import (
	"context"
	"errors"
	"log"
	"time"

	"anchor-sync/internal/config"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// ErrLockHeld is returned when another process owns the requested lock.
var ErrLockHeld = errors.New("lock is held by another process")

// ReleaseFunc gives a held lock back.
type ReleaseFunc func(ctx context.Context) error

// Locker guards work that must not run twice at the same time across replicas.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

// NewLocker returns a redis backed locker when REDIS_ADDRESS is set and a
// process-local no-op otherwise.
func NewLocker(lc fx.Lifecycle, cfg *config.Config) Locker {
	if cfg.RedisAddress == "" {
		log.Println("REDIS_ADDRESS not set; fleet runs are not guarded across replicas")
		return NoopLocker{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("failed to connect redis (addr=%s): %v; proceeding without redis lock", cfg.RedisAddress, err)
		_ = rdb.Close()
		return NoopLocker{}
	}
	log.Printf("connected to redis (addr=%s)", cfg.RedisAddress)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})

	return NewRedisLocker(rdb)
}

type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker wraps any client that can run lua scripts.
func NewRedisLocker(client redislock.RedisClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client)}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockHeld
	} else if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// ttl elapsed before the work finished
			return nil
		}
		return err
	}, nil
}

// NoopLocker always grants the lock.
type NoopLocker struct{}

func (NoopLocker) Obtain(context.Context, string, time.Duration) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
