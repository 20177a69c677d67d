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

// ReportPgRepository is the Postgres implementation of the report store
type ReportPgRepository struct {
	pool *pgxpool.Pool
}

func NewReportPgRepository(pool *pgxpool.Pool) *ReportPgRepository {
	return &ReportPgRepository{pool: pool}
}

const reportColumns = `
	id, author_id, vehicle_trip_id, category, description,
	latitude, longitude, confidence, is_verified, verified_by_admin,
	verified_at, resolved_at, created_at, updated_at
`

func scanReport(row pgx.Row) (*domain.Report, error) {
	var r domain.Report
	var category string
	err := row.Scan(
		&r.ID,
		&r.AuthorID,
		&r.VehicleTripID,
		&category,
		&r.Description,
		&r.Latitude,
		&r.Longitude,
		&r.Confidence,
		&r.IsVerified,
		&r.VerifiedByAdmin,
		&r.VerifiedAt,
		&r.ResolvedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Category = domain.ReportCategory(category)
	return &r, nil
}

func (r *ReportPgRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (
			id, author_id, vehicle_trip_id, category, description,
			latitude, longitude, confidence, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := db_conn.Conn(ctx, r.pool).Exec(ctx, query,
		report.ID,
		report.AuthorID,
		report.VehicleTripID,
		string(report.Category),
		report.Description,
		report.Latitude,
		report.Longitude,
		report.Confidence,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportPgRepository) FindByID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("query report by id: %w", err)
	}
	return report, nil
}

// LockForVote takes the row-level lock that serializes vote processing
// per report. Callers must be inside a transaction or the lock releases
// immediately.
func (r *ReportPgRepository) LockForVote(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 FOR UPDATE`

	report, err := scanReport(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("lock report for vote: %w", err)
	}
	return report, nil
}

func (r *ReportPgRepository) MarkVerified(ctx context.Context, reportID string, byAdmin bool, at time.Time) error {
	query := `
		UPDATE reports SET
			is_verified = TRUE,
			verified_by_admin = $2,
			confidence = 100,
			verified_at = $3,
			updated_at = $3
		WHERE id = $1 AND is_verified = FALSE
	`

	tag, err := db_conn.Conn(ctx, r.pool).Exec(ctx, query, reportID, byAdmin, at)
	if err != nil {
		return fmt.Errorf("mark report verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyVerified
	}
	return nil
}

func (r *ReportPgRepository) Resolve(ctx context.Context, reportID string, at time.Time) (*domain.Report, error) {
	query := `
		UPDATE reports SET
			resolved_at = COALESCE(resolved_at, $2),
			updated_at = $2
		WHERE id = $1
		RETURNING ` + reportColumns

	report, err := scanReport(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, reportID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("resolve report: %w", err)
	}
	return report, nil
}

func (r *ReportPgRepository) OpenIncidentsByTrip(ctx context.Context, tripID string, since time.Time) ([]*domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE vehicle_trip_id = $1
		  AND resolved_at IS NULL
		  AND created_at >= $2
		ORDER BY created_at DESC
	`

	rows, err := db_conn.Conn(ctx, r.pool).Query(ctx, query, tripID, since)
	if err != nil {
		return nil, fmt.Errorf("query open incidents: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (r *ReportPgRepository) FindVerifiedDelayReport(ctx context.Context, tripID string) (*domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE vehicle_trip_id = $1
		  AND is_verified = TRUE
		  AND resolved_at IS NULL
		  AND category IN ($2, $3)
		ORDER BY verified_at DESC
		LIMIT 1
	`

	report, err := scanReport(db_conn.Conn(ctx, r.pool).QueryRow(ctx, query,
		tripID,
		string(domain.CategoryVehicleBreakdown),
		string(domain.CategoryTrafficJam),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query verified delay report: %w", err)
	}
	return report, nil
}
