package tests

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"golang.org/x/crypto/bcrypt"

	"carpool/internal/domain"
	"carpool/internal/service"
)

type fixture struct {
	users    *MockUserRepository
	routes   *MockRouteRepository
	locks    *MockLockStore
	cache    *MockProfileCache
	images   *MockImageStore
	drivers  *service.DriverDirectory
	userSvc  *service.UserService
	routeSvc *service.RouteService
	matchSvc *service.MatchingService
	loc      *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	f := &fixture{
		users:  NewMockUserRepository(),
		routes: NewMockRouteRepository(),
		locks:  NewMockLockStore(),
		cache:  NewMockProfileCache(),
		images: NewMockImageStore(),
		loc:    loc,
	}
	f.drivers = service.NewDriverDirectory(f.users, f.cache)
	f.userSvc = service.NewUserService(f.users, f.routes, service.NewBcryptHasher(bcrypt.MinCost), f.locks, f.drivers)
	f.routeSvc = service.NewRouteService(f.routes, f.drivers)
	f.matchSvc = service.NewMatchingService(f.routes, f.drivers, loc)
	return f
}

func (f *fixture) register(t *testing.T, name, phone, role string) *domain.User {
	t.Helper()
	user, err := f.userSvc.Register(context.Background(), service.RegisterRequest{
		Name:        name,
		PhoneNumber: phone,
		Password:    "secret-" + phone,
		Role:        role,
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", phone, err)
	}
	return user
}

func (f *fixture) createRoute(t *testing.T, fields service.RouteFields) string {
	t.Helper()
	id, err := f.routeSvc.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("failed to create route: %v", err)
	}
	return id
}

func (f *fixture) at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, f.loc)
}

func strPtr(s string) *string { return &s }
