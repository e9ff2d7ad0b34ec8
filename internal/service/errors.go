package service

import (
	"errors"

	"carpool/internal/repository"
)

// Invalid input.
var (
	// ErrMissingFields is returned when a required field is absent or empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidCapacity is returned when a route capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("capacity must be a positive integer no greater than 2147483647")

	// ErrInvalidCost is returned when a route cost is not a positive number.
	ErrInvalidCost = errors.New("cost must be a positive number")

	// ErrInvalidDate is returned when a date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrEmptyProfileField is returned when a profile update would blank a required field.
	ErrEmptyProfileField = errors.New("name and role cannot be empty")
)

// Conflicts.
var (
	// ErrPhoneTaken is returned when registering a phone number that already has a user.
	ErrPhoneTaken = errors.New("phone number already registered")

	// ErrRegistrationInProgress is returned when another registration holds the phone number lock.
	ErrRegistrationInProgress = errors.New("registration for this phone number is in progress")
)

// Not found. Both match repository.ErrNotFound under errors.Is.
var (
	ErrUserNotFound  error = &notFoundError{msg: "user not found"}
	ErrRouteNotFound error = &notFoundError{msg: "route not found"}
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return repository.ErrNotFound }

// IsInvalidInput reports whether err belongs to the invalid-input class.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidCost) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrEmptyProfileField)
}
