package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

const pgUniqueViolation = "23505"

// VotePgRepository is the Postgres implementation of the vote store.
// The UNIQUE (report_id, voter_id) constraint is the second line of
// defense behind the duplicate check done under the report lock.
type VotePgRepository struct {
	pool *pgxpool.Pool
}

func NewVotePgRepository(pool *pgxpool.Pool) *VotePgRepository {
	return &VotePgRepository{pool: pool}
}

func (r *VotePgRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO report_votes (id, report_id, voter_id, confirm, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := db_conn.Conn(ctx, r.pool).Exec(ctx, query,
		vote.ID,
		vote.ReportID,
		vote.VoterID,
		vote.Confirm,
		vote.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *VotePgRepository) FindByReportAndVoter(ctx context.Context, reportID, voterID string) (*domain.Vote, error) {
	query := `
		SELECT id, report_id, voter_id, confirm, created_at
		FROM report_votes
		WHERE report_id = $1 AND voter_id = $2
	`

	var v domain.Vote
	err := db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, reportID, voterID).Scan(
		&v.ID,
		&v.ReportID,
		&v.VoterID,
		&v.Confirm,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query vote: %w", err)
	}
	return &v, nil
}

func (r *VotePgRepository) CountByReport(ctx context.Context, reportID string) (domain.VoteCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE confirm),
			COUNT(*) FILTER (WHERE NOT confirm)
		FROM report_votes
		WHERE report_id = $1
	`

	var counts domain.VoteCounts
	err := db_conn.Conn(ctx, r.pool).QueryRow(ctx, query, reportID).Scan(
		&counts.Confirmations,
		&counts.Denials,
	)
	if err != nil {
		return domain.VoteCounts{}, fmt.Errorf("count votes: %w", err)
	}
	return counts, nil
}
