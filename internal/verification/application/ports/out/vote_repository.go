package out

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// VoteRepository is the persistence contract for verification votes
type VoteRepository interface {
	Create(ctx context.Context, vote *domain.Vote) error

	// FindByReportAndVoter returns the voter's prior vote on the
	// report, or nil when the rider has not voted yet.
	FindByReportAndVoter(ctx context.Context, reportID, voterID string) (*domain.Vote, error)

	CountByReport(ctx context.Context, reportID string) (domain.VoteCounts, error)
}
