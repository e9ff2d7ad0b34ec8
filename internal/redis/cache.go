package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carpool/internal/domain"
)

// ProfileCacheTTL bounds how stale a cached driver profile may be.
const ProfileCacheTTL = 5 * time.Minute

// ProfileKeyPrefix namespaces cached profiles.
const ProfileKeyPrefix = "cache:profile:"

// CacheStore caches public user profiles in Redis.
// Only domain.PublicUser is stored, so cached entries never hold credentials.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// InvalidateProfile removes a profile from cache.
func (s *CacheStore) InvalidateProfile(ctx context.Context, userID string) error {
	return s.client.Del(ctx, ProfileKeyPrefix+userID).Err()
}

// GetProfilesBatch retrieves multiple profiles using a pipeline.
// Returns the hits keyed by user ID and the IDs that missed.
func (s *CacheStore) GetProfilesBatch(ctx context.Context, userIDs []string) (map[string]*domain.PublicUser, []string, error) {
	if len(userIDs) == 0 {
		return make(map[string]*domain.PublicUser), nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(userIDs))
	for _, id := range userIDs {
		cmds[id] = pipe.Get(ctx, ProfileKeyPrefix+id)
	}

	// Exec reports redis.Nil when any key is missing; per-command results are checked below.
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, nil, err
	}

	result := make(map[string]*domain.PublicUser, len(userIDs))
	var missing []string
	for _, id := range userIDs {
		data, err := cmds[id].Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}

		var profile domain.PublicUser
		if err := json.Unmarshal(data, &profile); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = &profile
	}

	return result, missing, nil
}

// SetProfilesBatch stores multiple profiles using a pipeline.
func (s *CacheStore) SetProfilesBatch(ctx context.Context, profiles []*domain.PublicUser) error {
	if len(profiles) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, profile := range profiles {
		data, err := json.Marshal(profile)
		if err != nil {
			continue
		}
		pipe.Set(ctx, ProfileKeyPrefix+profile.ID, data, ProfileCacheTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}
