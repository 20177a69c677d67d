package in

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// SubmitVoteInput — one rider's verdict on a report
type SubmitVoteInput struct {
	ReportID string `json:"report_id"`
	VoterID  string `json:"voter_id"`
	Confirm  bool   `json:"confirm"`
}

// SubmitVoteUseCase records a vote and applies the transition rule.
// Returns the post-vote verification status.
type SubmitVoteUseCase interface {
	Execute(ctx context.Context, input SubmitVoteInput) (*domain.VerificationStatus, error)
}
