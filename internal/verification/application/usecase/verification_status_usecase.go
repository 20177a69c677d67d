package usecase

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// VerificationStatusService builds the verification read model for one
// report as seen by one rider. No writes, no locks: presence and counts
// are read fresh, so two calls moments apart may disagree on the
// required-confirmation target while the vehicle crowd changes.
type VerificationStatusService struct {
	reports  out.ReportRepository
	votes    out.VoteRepository
	riders   rider.Repository
	presence *PresenceTracker
}

func NewVerificationStatusService(
	reports out.ReportRepository,
	votes out.VoteRepository,
	riders rider.Repository,
	presence *PresenceTracker,
) *VerificationStatusService {
	return &VerificationStatusService{
		reports:  reports,
		votes:    votes,
		riders:   riders,
		presence: presence,
	}
}

func (s *VerificationStatusService) Execute(ctx context.Context, reportID, requestingRiderID string) (*domain.VerificationStatus, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	counts, err := s.votes.CountByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	aboard, err := s.presence.RidersAboard(ctx, report.VehicleTripID)
	if err != nil {
		return nil, err
	}

	ownVote, err := s.votes.FindByReportAndVoter(ctx, reportID, requestingRiderID)
	if err != nil {
		return nil, err
	}

	canVote := !report.IsVerified &&
		report.AuthorID != requestingRiderID &&
		ownVote == nil
	if canVote {
		requester, err := s.riders.FindByID(ctx, requestingRiderID)
		if err != nil {
			return nil, err
		}
		if !requester.Role.AdminTier() && !contains(aboard, requestingRiderID) {
			canVote = false
		}
	}

	presenceCount := len(aboard)
	return &domain.VerificationStatus{
		ReportID:               report.ID,
		IsVerified:             report.IsVerified,
		VerifiedByAdmin:        report.VerifiedByAdmin,
		ConfirmationsCount:     counts.Confirmations,
		DenialsCount:           counts.Denials,
		TotalRidersOnVehicle:   presenceCount,
		RequiredConfirmations:  domain.RequiredConfirmations(presenceCount),
		VerificationPercentage: domain.VerificationPercentage(counts.Confirmations, presenceCount),
		CanVote:                canVote,
		OwnVote:                ownVote,
	}, nil
}
