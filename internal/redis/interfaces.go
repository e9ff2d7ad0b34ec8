package redis

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// ProfileCache defines the interface for cached public profiles.
type ProfileCache interface {
	GetProfilesBatch(ctx context.Context, userIDs []string) (map[string]*domain.PublicUser, []string, error)
	SetProfilesBatch(ctx context.Context, profiles []*domain.PublicUser) error
	InvalidateProfile(ctx context.Context, userID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquirePhoneLock(ctx context.Context, phone string, ttl time.Duration) (bool, error)
	ReleasePhoneLock(ctx context.Context, phone string) error
}

// Ensure concrete types implement interfaces.
var (
	_ ProfileCache       = (*CacheStore)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
