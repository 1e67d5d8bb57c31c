// Package lock serializes inventory mutations per station.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fuelops/internal/domain"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotObtained is returned when the lock could not be taken before the wait expired.
var ErrNotObtained = fmt.Errorf("%w: station lock not obtained", domain.ErrConflict)

// StationLocker runs fn while holding the lock for stationID.
type StationLocker interface {
	WithStationLock(ctx context.Context, stationID string, fn func(ctx context.Context) error) error
}

// RedisLocker is a StationLocker shared by every API instance.
type RedisLocker struct {
	client *redislock.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisLocker builds a locker on top of rdb.
func NewRedisLocker(rdb *redis.Client, prefix string, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
		logger: logger,
	}
}

func (l *RedisLocker) WithStationLock(ctx context.Context, stationID string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("%s:lock:station:%s", l.prefix, stationID)

	obtainCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	lk, err := l.client.Obtain(obtainCtx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		l.logger.Warn("Could not obtain station lock", zap.String("station_id", stationID))
		return fmt.Errorf("%w: %s", ErrNotObtained, stationID)
	}
	if err != nil {
		return fmt.Errorf("failed to obtain station lock: %w", err)
	}
	defer func() {
		if relErr := lk.Release(context.WithoutCancel(ctx)); relErr != nil && !errors.Is(relErr, redislock.ErrLockNotHeld) {
			l.logger.Error("Failed to release station lock", zap.String("station_id", stationID), zap.Error(relErr))
		}
	}()

	return fn(ctx)
}

// LocalLocker is an in-process StationLocker for single-instance deployments and tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) WithStationLock(ctx context.Context, stationID string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[stationID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[stationID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
