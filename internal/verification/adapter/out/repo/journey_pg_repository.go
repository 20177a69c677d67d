package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// JourneyPgRepository reads and updates personal journeys
type JourneyPgRepository struct {
	pool *pgxpool.Pool
}

func NewJourneyPgRepository(pool *pgxpool.Pool) *JourneyPgRepository {
	return &JourneyPgRepository{pool: pool}
}

const journeyColumns = `id, rider_id, name, status, notification_time, created_at, updated_at`

func scanJourney(row pgx.Row) (*domain.Journey, error) {
	var j domain.Journey
	err := row.Scan(
		&j.ID,
		&j.RiderID,
		&j.Name,
		&j.Status,
		&j.NotificationTime,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JourneyPgRepository) ActiveByRider(ctx context.Context, riderID string) (*domain.Journey, error) {
	query := `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE rider_id = $1 AND status = 'IN_PROGRESS'
		ORDER BY updated_at DESC
		LIMIT 1
	`

	j, err := scanJourney(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, riderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query active journey: %w", err)
	}
	return j, nil
}

func (r *JourneyPgRepository) DueReminders(ctx context.Context, now time.Time) ([]*domain.Journey, error) {
	query := `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE notification_time IS NOT NULL AND notification_time <= $1
		ORDER BY notification_time
	`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var journeys []*domain.Journey
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journey: %w", err)
		}
		journeys = append(journeys, j)
	}
	return journeys, rows.Err()
}

func (r *JourneyPgRepository) ClearReminder(ctx context.Context, journeyID string) error {
	query := `UPDATE journeys SET notification_time = NULL, updated_at = now() WHERE id = $1`

	if _, err := db_conn.Conn(ctx, r.pool).Exec(ctx, query, journeyID); err != nil {
		return fmt.Errorf("clear reminder: %w", err)
	}
	return nil
}
