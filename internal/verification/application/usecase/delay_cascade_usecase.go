package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// DelayCascadeService fans a verified delay out to the riders it
// affects. Presence is recomputed at trigger time, not taken from the
// vote that caused the verification, and the cascade keeps no memory:
// triggering twice may notify the same riders twice.
type DelayCascadeService struct {
	reports   out.ReportRepository
	journeys  out.JourneyRepository
	riders    rider.Repository
	presence  *PresenceTracker
	estimator in.PredictDelayUseCase
	sink      out.NotificationSink
	log       *logger.Logger
}

func NewDelayCascadeService(
	reports out.ReportRepository,
	journeys out.JourneyRepository,
	riders rider.Repository,
	presence *PresenceTracker,
	estimator in.PredictDelayUseCase,
	sink out.NotificationSink,
	log *logger.Logger,
) *DelayCascadeService {
	return &DelayCascadeService{
		reports:   reports,
		journeys:  journeys,
		riders:    riders,
		presence:  presence,
		estimator: estimator,
		sink:      sink,
		log:       log,
	}
}

func (s *DelayCascadeService) Execute(ctx context.Context, tripID string) (*in.DelayCascadeResult, error) {
	report, err := s.reports.FindVerifiedDelayReport(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return &in.DelayCascadeResult{DelayDetected: false}, nil
	}

	result := &in.DelayCascadeResult{
		DelayDetected: true,
		ReportID:      report.ID,
	}

	delayMinutes := s.estimateMinutes(ctx, tripID)

	aboard, err := s.presence.RidersAboard(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(aboard) == 0 {
		return result, nil
	}

	affected, err := s.riders.FindByIDs(ctx, aboard)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, r := range affected {
		journey, err := s.journeys.ActiveByRider(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if journey != nil && journey.InProgress() {
			n := domain.Notification{
				ID:               uuid.NewString(),
				Type:             domain.NotificationDelayDetected,
				Message:          fmt.Sprintf("Your vehicle is delayed by approximately %.0f minutes. Check the app for alternative routes.", delayMinutes),
				RecipientID:      r.ID,
				RelatedReportID:  &report.ID,
				RelatedJourneyID: &journey.ID,
				CreatedAt:        now,
			}
			if s.deliver(ctx, n) {
				result.AlternativeRoutesSent++
			}
		}

		contacts, err := rider.ParseContactList(r.FamilyContacts)
		if err != nil {
			if errors.Is(err, rider.ErrMalformedContacts) {
				s.log.Warn(logger.Entry{
					Action:  "delay_cascade",
					Message: "skipping malformed family contact list",
					TripID:  tripID,
					Additional: map[string]any{
						"rider_id": r.ID,
					},
				})
				continue
			}
			return nil, err
		}
		for _, contactID := range contacts {
			n := domain.Notification{
				ID:              uuid.NewString(),
				Type:            domain.NotificationFamilyMemberDelayed,
				Message:         fmt.Sprintf("%s is on a delayed vehicle (about %.0f minutes late).", r.Name, delayMinutes),
				RecipientID:     contactID,
				RelatedReportID: &report.ID,
				CreatedAt:       now,
			}
			if s.deliver(ctx, n) {
				result.FamilyNotificationsSent++
			}
		}
	}

	s.log.Info(logger.Entry{
		Action:   "delay_cascade",
		Message:  fmt.Sprintf("cascade done: %d rider, %d family notifications", result.AlternativeRoutesSent, result.FamilyNotificationsSent),
		ReportID: report.ID,
		TripID:   tripID,
	})

	return result, nil
}

// estimateMinutes asks the estimator for the headline number used in
// notification text. Estimation failure degrades the message, it does
// not abort the cascade.
func (s *DelayCascadeService) estimateMinutes(ctx context.Context, tripID string) float64 {
	estimate, err := s.estimator.Execute(ctx, in.PredictDelayInput{TripID: tripID})
	if err != nil {
		s.log.Warn(logger.Entry{
			Action:  "delay_cascade",
			Message: "delay estimation failed, using zero in messages",
			TripID:  tripID,
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return 0
	}
	return estimate.PredictedDelayMinutes
}

func (s *DelayCascadeService) deliver(ctx context.Context, n domain.Notification) bool {
	if err := s.sink.Deliver(ctx, n); err != nil {
		s.log.Error(logger.Entry{
			Action:  "notification_deliver",
			Message: "handoff to notification sink failed",
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"type":         string(n.Type),
				"recipient_id": n.RecipientID,
			},
		})
		return false
	}
	return true
}
