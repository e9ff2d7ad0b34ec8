package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RouteService is the route catalog: create, update, delete and list by driver.
type RouteService struct {
	routeRepo repository.RouteRepository
	drivers   *DriverDirectory
}

// NewRouteService creates a new RouteService.
func NewRouteService(routeRepo repository.RouteRepository, drivers *DriverDirectory) *RouteService {
	return &RouteService{
		routeRepo: routeRepo,
		drivers:   drivers,
	}
}

// RouteFields contains the mutable fields of a route.
// DriverID is a lookup key only; it is not checked against the user store.
type RouteFields struct {
	DriverID string
	Date     time.Time
	From     string
	To       string
	Capacity int
	Cost     float64
}

func (f RouteFields) validate() error {
	if f.DriverID == "" || f.Date.IsZero() || f.From == "" || f.To == "" {
		return ErrMissingFields
	}
	// Capacity is stored in a 32-bit column.
	if f.Capacity <= 0 || f.Capacity > math.MaxInt32 {
		return ErrInvalidCapacity
	}
	if f.Cost <= 0 || math.IsNaN(f.Cost) || math.IsInf(f.Cost, 0) {
		return ErrInvalidCost
	}
	return nil
}

// Create stores a new route and returns its ID.
func (s *RouteService) Create(ctx context.Context, fields RouteFields) (string, error) {
	if err := fields.validate(); err != nil {
		return "", err
	}

	route := &domain.Route{
		ID:        uuid.New().String(),
		DriverID:  fields.DriverID,
		Date:      fields.Date,
		From:      fields.From,
		To:        fields.To,
		Capacity:  fields.Capacity,
		Cost:      fields.Cost,
		CreatedAt: time.Now(),
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return "", err
	}

	return route.ID, nil
}

// Update overwrites every mutable field of route id.
// The existence check and the write are one store operation; concurrent
// updates and deletes of the same route are last-writer-wins.
func (s *RouteService) Update(ctx context.Context, id string, fields RouteFields) (*domain.Route, error) {
	if id == "" {
		return nil, ErrRouteNotFound
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	route := &domain.Route{
		ID:       id,
		DriverID: fields.DriverID,
		Date:     fields.Date,
		From:     fields.From,
		To:       fields.To,
		Capacity: fields.Capacity,
		Cost:     fields.Cost,
	}

	if err := s.routeRepo.Update(ctx, route); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return route, nil
}

// Delete permanently removes route id.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrRouteNotFound
	}

	if err := s.routeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRouteNotFound
		}
		return err
	}
	return nil
}

// ListByDriver returns the driver's routes, each carrying the driver card.
// If the driver no longer exists the routes are returned without it.
func (s *RouteService) ListByDriver(ctx context.Context, driverID string) ([]domain.DriverRoute, error) {
	routes, err := s.routeRepo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.DriverRoute, 0, len(routes))
	if len(routes) == 0 {
		return result, nil
	}

	profiles, err := s.drivers.Lookup(ctx, []string{driverID})
	if err != nil {
		return nil, err
	}

	var summary *domain.DriverSummary
	if p, ok := profiles[driverID]; ok {
		card := p.Summary()
		summary = &card
	}

	for _, r := range routes {
		result = append(result, domain.DriverRoute{Route: *r, Driver: summary})
	}
	return result, nil
}
