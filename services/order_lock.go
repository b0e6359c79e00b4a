package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockTTL bounds how long a completion lock can stick around if the
// holder dies mid-request
const lockTTL = 2 * time.Minute

// OrderLocker serializes completion attempts on the same order so two
// admins cannot trigger a double delivery and double earnings credit.
type OrderLocker interface {
	// Acquire takes the completion lock for an order. Returns false if
	// another completion attempt currently holds it.
	Acquire(ctx context.Context, orderID uint) (bool, error)

	// Release frees the lock
	Release(ctx context.Context, orderID uint)
}

// RedisOrderLocker implements OrderLocker with a SET NX key per order
type RedisOrderLocker struct {
	client *redis.Client
}

// NoopOrderLocker is used when redis is not configured; it preserves
// the unguarded behavior of a single-instance deployment.
type NoopOrderLocker struct{}

var orderLockerInstance OrderLocker = &NoopOrderLocker{}

// InitOrderLocker initializes the completion lock. An empty addr leaves
// the no-op locker in place.
func InitOrderLocker(addr string) OrderLocker {
	if addr == "" {
		orderLockerInstance = &NoopOrderLocker{}
		return orderLockerInstance
	}
	orderLockerInstance = &RedisOrderLocker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
	return orderLockerInstance
}

// GetOrderLocker returns the initialized locker instance
func GetOrderLocker() OrderLocker {
	return orderLockerInstance
}

// SetOrderLocker sets the locker instance (primarily for testing)
func SetOrderLocker(l OrderLocker) {
	orderLockerInstance = l
}

func completionLockKey(orderID uint) string {
	return fmt.Sprintf("order:completion:%d", orderID)
}

// Acquire takes the completion lock for an order
func (l *RedisOrderLocker) Acquire(ctx context.Context, orderID uint) (bool, error) {
	ok, err := l.client.SetNX(ctx, completionLockKey(orderID), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire completion lock for order %d: %w", orderID, err)
	}
	return ok, nil
}

// Release frees the lock
func (l *RedisOrderLocker) Release(ctx context.Context, orderID uint) {
	l.client.Del(ctx, completionLockKey(orderID))
}

// Acquire always succeeds for the no-op locker
func (l *NoopOrderLocker) Acquire(ctx context.Context, orderID uint) (bool, error) {
	return true, nil
}

// Release is a no-op
func (l *NoopOrderLocker) Release(ctx context.Context, orderID uint) {}
