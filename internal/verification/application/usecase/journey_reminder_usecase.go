package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// JourneyReminderService emits JOURNEY_REMINDER notifications for
// journeys whose notification time has passed and clears the marker so
// each reminder fires once. Driven by a ticker in bootstrap.
type JourneyReminderService struct {
	journeys out.JourneyRepository
	sink     out.NotificationSink
	log      *logger.Logger
}

func NewJourneyReminderService(journeys out.JourneyRepository, sink out.NotificationSink, log *logger.Logger) *JourneyReminderService {
	return &JourneyReminderService{
		journeys: journeys,
		sink:     sink,
		log:      log,
	}
}

// Tick processes one poll round and returns how many reminders were
// handed to the sink.
func (s *JourneyReminderService) Tick(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	due, err := s.journeys.DueReminders(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("due reminders: %w", err)
	}

	sent := 0
	for _, j := range due {
		n := domain.Notification{
			ID:               uuid.NewString(),
			Type:             domain.NotificationJourneyReminder,
			Message:          fmt.Sprintf("Your journey %q starts soon.", j.Name),
			RecipientID:      j.RiderID,
			RelatedJourneyID: &j.ID,
			CreatedAt:        now,
		}
		if err := s.sink.Deliver(ctx, n); err != nil {
			s.log.Error(logger.Entry{
				Action:  "journey_reminder",
				Message: "reminder handoff failed, will retry next tick",
				Error:   &logger.ErrObj{Msg: err.Error()},
				Additional: map[string]any{
					"journey_id": j.ID,
				},
			})
			continue
		}
		// Cleared only after a successful handoff; a failed clear means
		// a duplicate reminder next tick, which beats a lost one.
		if err := s.journeys.ClearReminder(ctx, j.ID); err != nil {
			s.log.Error(logger.Entry{
				Action:  "journey_reminder",
				Message: "failed to clear reminder marker",
				Error:   &logger.ErrObj{Msg: err.Error()},
				Additional: map[string]any{
					"journey_id": j.ID,
				},
			})
		}
		sent++
	}

	if sent > 0 {
		s.log.Info(logger.Entry{
			Action:  "journey_reminder",
			Message: fmt.Sprintf("sent %d journey reminders", sent),
		})
	}
	return sent, nil
}

// Run polls until the context is cancelled
func (s *JourneyReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.log.Error(logger.Entry{
					Action:  "journey_reminder",
					Message: "reminder tick failed",
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
			}
		}
	}
}
