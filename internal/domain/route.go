package domain

import "time"

// Route is a single trip offered by a driver.
type Route struct {
	ID        string    `json:"id"`
	DriverID  string    `json:"driverId"`
	Date      time.Time `json:"date"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Capacity  int       `json:"capacity"`
	Cost      float64   `json:"cost"`
	CreatedAt time.Time `json:"-"`
}

// RouteWithDriver is a route enriched with denormalized driver data.
// Driver is nil when the referenced driver no longer exists.
type RouteWithDriver[D PublicUser | DriverSummary] struct {
	Route
	Driver *D `json:"driver,omitempty"`
}

// MatchedRoute is a search result carrying the driver's public profile.
type MatchedRoute = RouteWithDriver[PublicUser]

// DriverRoute is a route listed under its driver, carrying the driver card.
type DriverRoute = RouteWithDriver[DriverSummary]

// RouteQuery selects routes on one calendar day between two places.
type RouteQuery struct {
	Date time.Time
	From string
	To   string
}

// DayWindow returns the half-open interval [start, end) covering the calendar
// day of t in loc. end is midnight of the following day, so every instant up to
// 23:59:59.999... of the day is inside the window.
func DayWindow(t time.Time, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// InWindow reports whether the route departs in [start, end).
func (r *Route) InWindow(start, end time.Time) bool {
	return !r.Date.Before(start) && r.Date.Before(end)
}

// Between reports whether the route runs from -> to. Places compare exactly, case included.
func (r *Route) Between(from, to string) bool {
	return r.From == from && r.To == to
}

// Matches reports whether the route satisfies q with calendar days taken in loc.
// Stores must select with the same rule; see RouteRepository.Search.
func (r *Route) Matches(q RouteQuery, loc *time.Location) bool {
	start, end := DayWindow(q.Date, loc)
	return r.Between(q.From, q.To) && r.InWindow(start, end)
}
