package domain

import "time"

// User represents a registered rider or driver.
// PasswordHash never leaves the service layer; outward-facing code uses PublicUser.
type User struct {
	ID           string
	Name         string
	PhoneNumber  string
	PasswordHash string
	Role         string
	Car          string
	CarImage     string
	CreatedAt    time.Time
}

// PublicUser is the outward-facing view of a User. It has no credential field.
type PublicUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	Car         string `json:"car,omitempty"`
	CarImage    string `json:"carImage,omitempty"`
}

// DriverSummary is the short driver card attached to routes listed per driver.
type DriverSummary struct {
	Name     string `json:"name"`
	Car      string `json:"car,omitempty"`
	CarImage string `json:"carImage,omitempty"`
}

// Public returns the redacted view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Car:         u.Car,
		CarImage:    u.CarImage,
	}
}

// Summary returns the driver card for the user.
func (u PublicUser) Summary() DriverSummary {
	return DriverSummary{Name: u.Name, Car: u.Car, CarImage: u.CarImage}
}

// ProfileChanges lists the user fields a profile update may overwrite.
// Nil fields are left untouched.
type ProfileChanges struct {
	Name *string
	Role *string
	Car  *string
}

// Apply overwrites the non-nil fields onto u.
func (p ProfileChanges) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Car != nil {
		u.Car = *p.Car
	}
}

// UserProfile is a user's public profile together with the routes they drive.
type UserProfile struct {
	PublicUser
	Routes []*Route `json:"routes"`
}
