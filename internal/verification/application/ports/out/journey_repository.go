package out

import (
	"context"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// JourneyRepository is the read/write contract for personal journeys
type JourneyRepository interface {
	// ActiveByRider returns the rider's in-progress journey, or nil
	// when there is none.
	ActiveByRider(ctx context.Context, riderID string) (*domain.Journey, error)

	// DueReminders returns journeys whose notification_time has passed
	DueReminders(ctx context.Context, now time.Time) ([]*domain.Journey, error)

	// ClearReminder unsets notification_time after the reminder is sent
	ClearReminder(ctx context.Context, journeyID string) error
}
