package service

import (
	"context"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// DriverDirectory resolves driver IDs to public profiles for route enrichment.
// Lookups go through the profile cache first, then a single batched store query.
type DriverDirectory struct {
	userRepo repository.UserRepository
	cache    redis.ProfileCache
}

// NewDriverDirectory creates a new DriverDirectory. cache may be nil.
func NewDriverDirectory(userRepo repository.UserRepository, cache redis.ProfileCache) *DriverDirectory {
	return &DriverDirectory{
		userRepo: userRepo,
		cache:    cache,
	}
}

// Lookup returns the public profiles of the drivers that exist among ids.
// IDs with no user, including malformed ones, are absent from the result.
// A store failure fails the whole lookup.
func (d *DriverDirectory) Lookup(ctx context.Context, ids []string) (map[string]domain.PublicUser, error) {
	wanted := uniqueValidIDs(ids)
	profiles := make(map[string]domain.PublicUser, len(wanted))
	if len(wanted) == 0 {
		return profiles, nil
	}

	missing := wanted
	if d.cache != nil {
		cached, misses, err := d.cache.GetProfilesBatch(ctx, wanted)
		if err == nil {
			for id, p := range cached {
				profiles[id] = *p
			}
			missing = misses
		}
	}

	if len(missing) == 0 {
		return profiles, nil
	}

	users, err := d.userRepo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	fresh := make([]*domain.PublicUser, 0, len(users))
	for id, u := range users {
		p := u.Public()
		profiles[id] = p
		fresh = append(fresh, &p)
	}

	if d.cache != nil {
		_ = d.cache.SetProfilesBatch(ctx, fresh)
	}

	return profiles, nil
}

// Invalidate drops any cached profile for userID.
func (d *DriverDirectory) Invalidate(ctx context.Context, userID string) {
	if d.cache == nil {
		return
	}
	_ = d.cache.InvalidateProfile(ctx, userID)
}

func uniqueValidIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
