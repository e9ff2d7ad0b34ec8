package repository

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *domain.Route) error

	// Update overwrites every mutable field of an existing route.
	Update(ctx context.Context, route *domain.Route) error

	// Delete permanently removes a route.
	Delete(ctx context.Context, id string) error

	// ListByDriver retrieves all routes driven by driverID in creation order.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Route, error)

	// Search retrieves routes with from/to equal to the given places whose date
	// lies in [start, end), in creation order.
	Search(ctx context.Context, from, to string, start, end time.Time) ([]*domain.Route, error)
}
