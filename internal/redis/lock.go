package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// PhoneLockKeyPrefix namespaces registration locks.
const PhoneLockKeyPrefix = "lock:phone:"

// LockStore handles short-lived distributed locks in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquirePhoneLock attempts to lock a phone number for registration.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquirePhoneLock(ctx context.Context, phone string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, PhoneLockKeyPrefix+phone, "1", ttl).Result()
}

// ReleasePhoneLock releases the registration lock for a phone number.
func (s *LockStore) ReleasePhoneLock(ctx context.Context, phone string) error {
	return s.client.Del(ctx, PhoneLockKeyPrefix+phone).Err()
}
