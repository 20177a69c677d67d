package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// TripPgRepository reads vehicle trips and their scheduled stops
type TripPgRepository struct {
	pool *pgxpool.Pool
}

func NewTripPgRepository(pool *pgxpool.Pool) *TripPgRepository {
	return &TripPgRepository{pool: pool}
}

func (r *TripPgRepository) FindByID(ctx context.Context, tripID string) (*domain.VehicleTrip, error) {
	query := `
		SELECT id, route_id, driver_id, status, scheduled_departure, scheduled_arrival, created_at
		FROM vehicle_trips
		WHERE id = $1
	`

	var t domain.VehicleTrip
	err := db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, tripID).Scan(
		&t.ID,
		&t.RouteID,
		&t.DriverID,
		&t.Status,
		&t.ScheduledDeparture,
		&t.ScheduledArrival,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, fmt.Errorf("query trip by id: %w", err)
	}
	return &t, nil
}

func (r *TripPgRepository) StopsByRoute(ctx context.Context, routeID string) ([]*domain.RouteStop, error) {
	query := `
		SELECT id, route_id, stop_order, name, latitude, longitude, scheduled_arrival
		FROM route_stops
		WHERE route_id = $1
		ORDER BY stop_order
	`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("query route stops: %w", err)
	}
	defer rows.Close()

	var stops []*domain.RouteStop
	for rows.Next() {
		var s domain.RouteStop
		err := rows.Scan(
			&s.ID,
			&s.RouteID,
			&s.StopOrder,
			&s.Name,
			&s.Latitude,
			&s.Longitude,
			&s.ScheduledArrival,
		)
		if err != nil {
			return nil, fmt.Errorf("scan route stop: %w", err)
		}
		stops = append(stops, &s)
	}
	return stops, rows.Err()
}
