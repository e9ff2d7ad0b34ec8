package tests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/imagestore"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
// Phone numbers are unique, as enforced by the users table index.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount   int32
	GetByIDsCallCount int32

	// CreateHook runs before each Create.
	CreateHook func()

	// Error injection
	CreateError   error
	GetByIDsError error
	UpdateError   error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// RemoveUser deletes a user directly, leaving their routes dangling.
func (m *MockUserRepository) RemoveUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateHook != nil {
		m.CreateHook()
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.PhoneNumber == user.PhoneNumber {
			return repository.ErrDuplicate
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	atomic.AddInt32(&m.GetByIDsCallCount, 1)
	if m.GetByIDsError != nil {
		return nil, m.GetByIDsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			copy := *u
			result[id] = &copy
		}
	}
	return result, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// GetUser returns the stored user for assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// CountByPhone returns how many users hold the phone number.
func (m *MockUserRepository) CountByPhone(phone string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			n++
		}
	}
	return n
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
// Routes are kept in insertion order.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes []*domain.Route

	// Error injection
	CreateError error
	SearchError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route)
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *route
	m.routes = append(m.routes, &copy)
	return nil
}

func (m *MockRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(route.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	route.CreatedAt = m.routes[i].CreatedAt
	copy := *route
	m.routes[i] = &copy
	return nil
}

func (m *MockRouteRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	m.routes = append(m.routes[:i], m.routes[i+1:]...)
	return nil
}

func (m *MockRouteRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []*domain.Route{}
	for _, r := range m.routes {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRouteRepository) Search(ctx context.Context, from, to string, start, end time.Time) ([]*domain.Route, error) {
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []*domain.Route{}
	for _, r := range m.routes {
		if r.Between(from, to) && r.InWindow(start, end) {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountRoutes returns the number of routes.
func (m *MockRouteRepository) CountRoutes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.routes)
}

// GetRoute returns the stored route for assertions.
func (m *MockRouteRepository) GetRoute(id string) *domain.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.routes[i]
	}
	return nil
}

func (m *MockRouteRepository) indexOf(id string) int {
	for i, r := range m.routes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquirePhoneLock(ctx context.Context, phone string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[phone] {
		return false, nil
	}
	m.locks[phone] = true
	return true, nil
}

// ReleasePhoneLock fails on a done context, as a network call would.
func (m *MockLockStore) ReleasePhoneLock(ctx context.Context, phone string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, phone)
	return nil
}

// IsLocked reports whether the phone lock is held.
func (m *MockLockStore) IsLocked(phone string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[phone]
}

// ──────────────────────────────────────────────
// MOCK PROFILE CACHE
// ──────────────────────────────────────────────

// MockProfileCache is a mock implementation of ProfileCache.
type MockProfileCache struct {
	mu       sync.Mutex
	profiles map[string]domain.PublicUser

	GetError error

	InvalidateCallCount int32
}

// NewMockProfileCache creates a new mock profile cache.
func NewMockProfileCache() *MockProfileCache {
	return &MockProfileCache{
		profiles: make(map[string]domain.PublicUser),
	}
}

func (m *MockProfileCache) GetProfilesBatch(ctx context.Context, userIDs []string) (map[string]*domain.PublicUser, []string, error) {
	if m.GetError != nil {
		return nil, nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := make(map[string]*domain.PublicUser)
	var missing []string
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			p := p
			found[id] = &p
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

func (m *MockProfileCache) SetProfilesBatch(ctx context.Context, profiles []*domain.PublicUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range profiles {
		m.profiles[p.ID] = *p
	}
	return nil
}

func (m *MockProfileCache) InvalidateProfile(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
	return nil
}

// Cached reports whether a profile is cached for userID.
func (m *MockProfileCache) Cached(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK IMAGE STORE
// ──────────────────────────────────────────────

// MockImageStore is an in-memory imagestore.Store.
type MockImageStore struct {
	mu      sync.Mutex
	images  map[string][]byte
	counter int

	SaveError error
}

// NewMockImageStore creates a new mock image store.
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		images: make(map[string][]byte),
	}
}

func (m *MockImageStore) Save(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	ref := fmt.Sprintf("image-%d.jpg", m.counter)
	m.images[ref] = buf.Bytes()
	return ref, nil
}

func (m *MockImageStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, ref)
	return nil
}

// Count returns the number of stored images.
func (m *MockImageStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// Ensure mocks implement interfaces.
var (
	_ repository.UserRepository  = (*MockUserRepository)(nil)
	_ repository.RouteRepository = (*MockRouteRepository)(nil)
	_ redis.LockStoreInterface   = (*MockLockStore)(nil)
	_ redis.ProfileCache         = (*MockProfileCache)(nil)
	_ imagestore.Store           = (*MockImageStore)(nil)
)
