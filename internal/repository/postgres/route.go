package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

const routeColumns = `id, driver_id, date, from_place, to_place, capacity, cost, created_at`

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, driver_id, date, from_place, to_place, capacity, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.DriverID,
		route.Date,
		route.From,
		route.To,
		route.Capacity,
		route.Cost,
		route.CreatedAt,
	)
	return err
}

// Update overwrites every mutable field of a route in one statement.
// Concurrent updates are last-writer-wins.
func (r *RouteRepository) Update(ctx context.Context, route *domain.Route) error {
	query := `
		UPDATE routes
		SET driver_id = $1, date = $2, from_place = $3, to_place = $4, capacity = $5, cost = $6
		WHERE id = $7
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		route.DriverID,
		route.Date,
		route.From,
		route.To,
		route.Capacity,
		route.Cost,
		route.ID,
	).Scan(&route.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete permanently removes a route.
func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return repository.ErrNotFound
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByDriver retrieves all routes driven by driverID.
func (r *RouteRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE driver_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, driverID)
}

// Search retrieves routes between from and to departing in [start, end).
// The WHERE clause is domain.Route.Between and domain.Route.InWindow in SQL;
// the columns use the default deterministic collation, so equality is exact.
func (r *RouteRepository) Search(ctx context.Context, from, to string, start, end time.Time) ([]*domain.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE from_place = $1 AND to_place = $2 AND date >= $3 AND date < $4
		ORDER BY created_at, id
	`
	return r.list(ctx, query, from, to, start, end)
}

func (r *RouteRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Route, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var route domain.Route
	err := row.Scan(
		&route.ID,
		&route.DriverID,
		&route.Date,
		&route.From,
		&route.To,
		&route.Capacity,
		&route.Cost,
		&route.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &route, nil
}
