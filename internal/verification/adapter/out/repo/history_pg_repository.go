package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
)

// DefaultHistoryLookbackDays bounds how far back comparable trips are
// considered when deriving delay samples.
const DefaultHistoryLookbackDays = 7

// HistoryPgRepository derives historical delay samples from completed
// trips on the same route: the trip's delay is the gap between its
// scheduled arrival and its last recorded ping, signed (negative means
// the trip finished early). Comparable trips share the departure hour
// (within one, wrapping midnight), the weekday/weekend class, and fall
// inside the lookback window.
type HistoryPgRepository struct {
	pool         *pgxpool.Pool
	lookbackDays int
}

func NewHistoryPgRepository(pool *pgxpool.Pool, lookbackDays int) *HistoryPgRepository {
	if lookbackDays <= 0 {
		lookbackDays = DefaultHistoryLookbackDays
	}
	return &HistoryPgRepository{pool: pool, lookbackDays: lookbackDays}
}

func (r *HistoryPgRepository) Samples(ctx context.Context, key out.HistoricalDelayKey) ([]float64, error) {
	query := `
		SELECT EXTRACT(EPOCH FROM (p.last_ping - t.scheduled_arrival)) / 60.0
		FROM vehicle_trips t
		JOIN (
			SELECT vehicle_trip_id, MAX(recorded_at) AS last_ping
			FROM location_pings
			GROUP BY vehicle_trip_id
		) p ON p.vehicle_trip_id = t.id
		WHERE t.route_id = $1
		  AND t.status = 'COMPLETED'
		  AND t.scheduled_departure IS NOT NULL
		  AND t.scheduled_arrival IS NOT NULL
		  AND t.scheduled_departure >= NOW() - make_interval(days => $4)
		  AND LEAST(
				ABS(EXTRACT(HOUR FROM t.scheduled_departure) - $2),
				24 - ABS(EXTRACT(HOUR FROM t.scheduled_departure) - $2)
			  ) <= 1
		  AND (EXTRACT(ISODOW FROM t.scheduled_departure) >= 6) = $3
	`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, key.RouteID, key.Hour, key.Weekend, r.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("query historical delays: %w", err)
	}
	defer rows.Close()

	var samples []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan delay sample: %w", err)
		}
		samples = append(samples, v)
	}
	return samples, rows.Err()
}
