package rider

import (
	"context"
	"errors"
	"fmt"

	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the Postgres implementation of Repository
type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{
		pool: pool,
		log:  log,
	}
}

const riderColumns = `
	id, email, name, hashed_password, role, status,
	reputation_points, verified_reports_count, COALESCE(badge, ''),
	family_contacts, created_at, updated_at
`

func scanRider(row pgx.Row) (*Rider, error) {
	var r Rider
	var role string
	err := row.Scan(
		&r.ID,
		&r.Email,
		&r.Name,
		&r.HashedPassword,
		&role,
		&r.Status,
		&r.ReputationPoints,
		&r.VerifiedReportsCount,
		&r.Badge,
		&r.FamilyContacts,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Role = ParseRole(role)
	return &r, nil
}

// FindByID returns a rider by id
func (r *PgRepository) FindByID(ctx context.Context, riderID string) (*Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE id = $1`

	rd, err := scanRider(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, riderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRiderNotFound
		}
		return nil, fmt.Errorf("query rider by id: %w", err)
	}
	return rd, nil
}

// FindByEmail returns a rider by email (login path)
func (r *PgRepository) FindByEmail(ctx context.Context, email string) (*Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE email = $1`

	rd, err := scanRider(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRiderNotFound
		}
		return nil, fmt.Errorf("query rider by email: %w", err)
	}
	return rd, nil
}

// FindByIDs returns all riders whose id is in the given set
func (r *PgRepository) FindByIDs(ctx context.Context, riderIDs []string) ([]*Rider, error) {
	if len(riderIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + riderColumns + ` FROM riders WHERE id = ANY($1)`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, riderIDs)
	if err != nil {
		return nil, fmt.Errorf("query riders by ids: %w", err)
	}
	defer rows.Close()

	var riders []*Rider
	for rows.Next() {
		rd, err := scanRider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rider: %w", err)
		}
		riders = append(riders, rd)
	}
	return riders, rows.Err()
}

// AwardVerifiedReport applies the reputation reward in a single UPDATE
// so the counters and the badge can never drift apart. Runs inside the
// vote transaction when one is present in ctx.
func (r *PgRepository) AwardVerifiedReport(ctx context.Context, riderID string, points int) (int, error) {
	query := `
		UPDATE riders SET
			reputation_points = reputation_points + $2,
			verified_reports_count = verified_reports_count + 1,
			badge = CASE
				WHEN verified_reports_count + 1 >= 50 THEN 'Expert Reporter'
				WHEN verified_reports_count + 1 >= 20 THEN 'Experienced Reporter'
				WHEN verified_reports_count + 1 >= 5 THEN 'Active Reporter'
				ELSE 'New Reporter'
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING verified_reports_count
	`

	var newCount int
	err := db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, riderID, points).Scan(&newCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrRiderNotFound
		}
		r.log.Error(logger.Entry{
			Action:  "db_award_verified_report_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"rider_id": riderID,
			},
		})
		return 0, fmt.Errorf("award verified report: %w", err)
	}
	return newCount, nil
}
