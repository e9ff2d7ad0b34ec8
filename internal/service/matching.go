package service

import (
	"context"
	"slices"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// MatchingService answers rider searches: routes on a calendar day between two places.
// It is read-only and safe for concurrent use.
type MatchingService struct {
	routeRepo repository.RouteRepository
	drivers   *DriverDirectory
	loc       *time.Location
}

// NewMatchingService creates a new MatchingService. Calendar days are taken in loc.
func NewMatchingService(routeRepo repository.RouteRepository, drivers *DriverDirectory, loc *time.Location) *MatchingService {
	if loc == nil {
		loc = time.Local
	}
	return &MatchingService{
		routeRepo: routeRepo,
		drivers:   drivers,
		loc:       loc,
	}
}

// Location returns the calendar location used for day boundaries.
func (s *MatchingService) Location() *time.Location {
	return s.loc
}

// Search returns every route whose from and to equal the query exactly and whose
// date falls on the query's calendar day, in creation order. Each result carries
// the driver's public profile; results whose driver no longer exists have none.
func (s *MatchingService) Search(ctx context.Context, q domain.RouteQuery) ([]domain.MatchedRoute, error) {
	if q.Date.IsZero() || q.From == "" || q.To == "" {
		return nil, ErrMissingFields
	}

	start, end := domain.DayWindow(q.Date, s.loc)

	routes, err := s.routeRepo.Search(ctx, q.From, q.To, start, end)
	if err != nil {
		return nil, err
	}

	// Results the store returns outside the rule (e.g. under a
	// case-insensitive collation) are dropped.
	routes = slices.DeleteFunc(routes, func(r *domain.Route) bool {
		return !r.Matches(q, s.loc)
	})

	result := make([]domain.MatchedRoute, 0, len(routes))
	if len(routes) == 0 {
		return result, nil
	}

	driverIDs := make([]string, 0, len(routes))
	for _, r := range routes {
		driverIDs = append(driverIDs, r.DriverID)
	}

	profiles, err := s.drivers.Lookup(ctx, driverIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range routes {
		m := domain.MatchedRoute{Route: *r}
		if p, ok := profiles[r.DriverID]; ok {
			driver := p
			m.Driver = &driver
		}
		result = append(result, m)
	}
	return result, nil
}
