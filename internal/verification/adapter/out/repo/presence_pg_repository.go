package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
)

// PresencePgRepository runs the two presence queries the tracker unions
type PresencePgRepository struct {
	pool *pgxpool.Pool
}

func NewPresencePgRepository(pool *pgxpool.Pool) *PresencePgRepository {
	return &PresencePgRepository{pool: pool}
}

func (r *PresencePgRepository) RidersWithRecentPings(ctx context.Context, tripID string, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT rider_id
		FROM location_pings
		WHERE vehicle_trip_id = $1 AND recorded_at >= $2
	`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, tripID, since)
	if err != nil {
		return nil, fmt.Errorf("query recent pings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rider id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PresencePgRepository) RidersWithActiveJourney(ctx context.Context, tripID string) ([]string, error) {
	query := `
		SELECT DISTINCT p.rider_id
		FROM location_pings p
		JOIN journeys j ON j.rider_id = p.rider_id
		WHERE p.vehicle_trip_id = $1 AND j.status = 'IN_PROGRESS'
	`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("query active journey riders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rider id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
