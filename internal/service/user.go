package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

const phoneLockTTL = 10 * time.Second

// UserService handles registration, authentication and profile updates.
type UserService struct {
	userRepo  repository.UserRepository
	routeRepo repository.RouteRepository
	hasher    PasswordHasher
	lockStore redis.LockStoreInterface
	drivers   *DriverDirectory

	decoyOnce sync.Once
	decoyHash string
}

// NewUserService creates a new UserService. lockStore and drivers may be nil.
func NewUserService(
	userRepo repository.UserRepository,
	routeRepo repository.RouteRepository,
	hasher PasswordHasher,
	lockStore redis.LockStoreInterface,
	drivers *DriverDirectory,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		routeRepo: routeRepo,
		hasher:    hasher,
		lockStore: lockStore,
		drivers:   drivers,
	}
}

// RegisterRequest contains the parameters for registering a user.
type RegisterRequest struct {
	Name        string
	PhoneNumber string
	Password    string
	Role        string
}

// Register creates a new user. The phone number must not be registered yet.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Name == "" || req.PhoneNumber == "" || req.Password == "" || req.Role == "" {
		return nil, ErrMissingFields
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquirePhoneLock(ctx, req.PhoneNumber, phoneLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrRegistrationInProgress
		}
		// Release even if the caller has gone away, or retries wait out the TTL.
		defer s.lockStore.ReleasePhoneLock(context.WithoutCancel(ctx), req.PhoneNumber)
	}

	existing, err := s.userRepo.GetByPhone(ctx, req.PhoneNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	// The unique index settles races the pre-check and lock cannot.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}

	return user, nil
}

// Authenticate returns the user whose phone number and password both match.
func (s *UserService) Authenticate(ctx context.Context, phoneNumber, password string) (*domain.User, error) {
	if phoneNumber == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Pay for a comparison anyway so unknown numbers answer as slowly as known ones.
			s.hasher.Compare(s.decoy(), password)
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfileRequest contains the parameters for a profile update.
// CarImage, when set, replaces the stored image reference.
type UpdateProfileRequest struct {
	UserID   string
	Changes  domain.ProfileChanges
	CarImage string
}

// UpdateProfile overwrites the given profile fields and returns the redacted result.
// Applying the same request twice yields the same record.
func (s *UserService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (domain.PublicUser, error) {
	if req.UserID == "" {
		return domain.PublicUser{}, ErrMissingFields
	}

	if isBlank(req.Changes.Name) || isBlank(req.Changes.Role) {
		return domain.PublicUser{}, ErrEmptyProfileField
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PublicUser{}, ErrUserNotFound
		}
		return domain.PublicUser{}, err
	}

	req.Changes.Apply(user)
	if req.CarImage != "" {
		user.CarImage = req.CarImage
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PublicUser{}, ErrUserNotFound
		}
		return domain.PublicUser{}, err
	}

	if s.drivers != nil {
		s.drivers.Invalidate(ctx, user.ID)
	}

	return user.Public(), nil
}

// GetByPhoneNumber returns the user's public profile and every route they drive.
func (s *UserService) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.UserProfile, error) {
	if phoneNumber == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	routes, err := s.routeRepo.ListByDriver(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []*domain.Route{}
	}

	return &domain.UserProfile{
		PublicUser: user.Public(),
		Routes:     routes,
	}, nil
}

// decoy returns a hash no password matches, computed with the service's hasher.
func (s *UserService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.decoyHash
}

func isBlank(s *string) bool {
	return s != nil && *s == ""
}
