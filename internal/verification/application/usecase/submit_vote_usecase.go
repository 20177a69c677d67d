package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// VerifiedReportPoints is the reputation reward for an author whose
// report gets verified. Awarded exactly once per report.
const VerifiedReportPoints = 10

// SubmitVoteService is the write path of the verification engine.
// Everything from the duplicate check to the reputation award runs in
// one transaction under the report's row lock, so concurrent votes on
// the same report serialize and the verified transition fires once.
type SubmitVoteService struct {
	tx       out.TxRunner
	reports  out.ReportRepository
	votes    out.VoteRepository
	riders   rider.Repository
	presence *PresenceTracker
	cascade  in.TriggerDelayCascadeUseCase
	log      *logger.Logger
}

func NewSubmitVoteService(
	tx out.TxRunner,
	reports out.ReportRepository,
	votes out.VoteRepository,
	riders rider.Repository,
	presence *PresenceTracker,
	cascade in.TriggerDelayCascadeUseCase,
	log *logger.Logger,
) *SubmitVoteService {
	return &SubmitVoteService{
		tx:       tx,
		reports:  reports,
		votes:    votes,
		riders:   riders,
		presence: presence,
		cascade:  cascade,
		log:      log,
	}
}

func (s *SubmitVoteService) Execute(ctx context.Context, input in.SubmitVoteInput) (*domain.VerificationStatus, error) {
	voter, err := s.riders.FindByID(ctx, input.VoterID)
	if err != nil {
		return nil, err
	}
	if !voter.IsActive() {
		return nil, domain.ErrForbidden
	}

	var (
		report     *domain.Report
		counts     domain.VoteCounts
		ownVote    *domain.Vote
		aboard     []string
		transition bool
		byAdmin    bool
	)

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		report, err = s.reports.LockForVote(txCtx, input.ReportID)
		if err != nil {
			return err
		}
		if report.IsVerified {
			return domain.ErrAlreadyVerified
		}
		if report.AuthorID == input.VoterID {
			return domain.ErrSelfVote
		}

		prior, err := s.votes.FindByReportAndVoter(txCtx, input.ReportID, input.VoterID)
		if err != nil {
			return err
		}
		if prior != nil {
			return domain.ErrDuplicateVote
		}

		// Presence is read fresh while the report lock is held so the
		// quorum denominator matches the vehicle at decision time.
		aboard, err = s.presence.RidersAboard(txCtx, report.VehicleTripID)
		if err != nil {
			return err
		}
		if !voter.Role.AdminTier() && !contains(aboard, input.VoterID) {
			return domain.ErrNotOnVehicle
		}

		now := time.Now().UTC()
		ownVote = &domain.Vote{
			ID:        uuid.NewString(),
			ReportID:  input.ReportID,
			VoterID:   input.VoterID,
			Confirm:   input.Confirm,
			CreatedAt: now,
		}
		if err := s.votes.Create(txCtx, ownVote); err != nil {
			return err
		}

		counts, err = s.votes.CountByReport(txCtx, input.ReportID)
		if err != nil {
			return err
		}

		switch {
		case input.Confirm && voter.Role.AdminTier():
			transition, byAdmin = true, true
		case input.Confirm && domain.CrowdQuorumMet(counts.Confirmations, len(aboard)):
			transition = true
		}

		if transition {
			if err := s.reports.MarkVerified(txCtx, report.ID, byAdmin, now); err != nil {
				return err
			}
			newCount, err := s.riders.AwardVerifiedReport(txCtx, report.AuthorID, VerifiedReportPoints)
			if err != nil {
				return err
			}
			s.log.Info(logger.Entry{
				Action:   "report_verified",
				Message:  fmt.Sprintf("report verified (by_admin=%t), author at %d verified reports", byAdmin, newCount),
				ReportID: report.ID,
				TripID:   report.VehicleTripID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transition && report.Category.DelayRelevant() {
		// Fan-out happens outside the vote transaction; a slow or failing
		// cascade must not hold the report lock or fail the vote.
		go func() {
			cascCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := s.cascade.Execute(cascCtx, report.VehicleTripID); err != nil {
				s.log.Error(logger.Entry{
					Action:   "delay_cascade",
					Message:  "cascade after verification failed",
					ReportID: report.ID,
					TripID:   report.VehicleTripID,
					Error:    &logger.ErrObj{Msg: err.Error()},
				})
			}
		}()
	}

	presenceCount := len(aboard)
	return &domain.VerificationStatus{
		ReportID:               report.ID,
		IsVerified:             transition || report.IsVerified,
		VerifiedByAdmin:        byAdmin,
		ConfirmationsCount:     counts.Confirmations,
		DenialsCount:           counts.Denials,
		TotalRidersOnVehicle:   presenceCount,
		RequiredConfirmations:  domain.RequiredConfirmations(presenceCount),
		VerificationPercentage: domain.VerificationPercentage(counts.Confirmations, presenceCount),
		CanVote:                false,
		OwnVote:                ownVote,
	}, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
