package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locker is a short-lived lease used to serialize concurrent bookings of the
// same provider slot around the check-then-insert window.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, leaseValue string) error
}

// SlotKey names the lease for one provider slot.
func SlotKey(providerID int64, start time.Time) string {
	return fmt.Sprintf("slot:%d:%d", providerID, start.Unix())
}

type redisLocker struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisLocker(client *redis.Client, logger *zap.Logger) Locker {
	return &redisLocker{client: client, logger: logger}
}

// TryLock attempts SETNX with a random lease value. The value is required to
// unlock, so an expired lease cannot release someone else's lock.
func (l *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error) {
	leaseValue := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, leaseValue, ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("acquire lock %s: %w", key, err)
	}

	if !acquired {
		return false, "", nil
	}

	return true, leaseValue, nil
}

func (l *redisLocker) Unlock(ctx context.Context, key, leaseValue string) error {
	stored, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Lease already expired.
		return nil
	}
	if err != nil {
		return fmt.Errorf("read lock %s: %w", key, err)
	}

	if stored != leaseValue {
		l.logger.Warn("Lock not owned by this lease, leaving it",
			zap.String("key", key))
		return nil
	}

	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}

	return nil
}

// Noop is used where no Redis is available, e.g. in tests. Every TryLock
// succeeds.
type Noop struct{}

func (Noop) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error) {
	return true, "", nil
}

func (Noop) Unlock(ctx context.Context, key, leaseValue string) error { return nil }
