package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
)

// DefaultPresenceWindow bounds how old a location ping may be and still
// count a rider as currently aboard.
const DefaultPresenceWindow = 30 * time.Minute

// PresenceTracker answers "who is on this vehicle trip right now".
// The answer is the union of riders with a recent ping on the trip and
// riders with an in-progress journey that has any ping on the trip
// (covers riders whose last ping predates the window). Read-only and
// tolerant of missing data: no pings means an empty set, never an error.
type PresenceTracker struct {
	presence out.PresenceRepository
	window   time.Duration
	log      *logger.Logger
}

func NewPresenceTracker(presence out.PresenceRepository, window time.Duration, log *logger.Logger) *PresenceTracker {
	if window <= 0 {
		window = DefaultPresenceWindow
	}
	return &PresenceTracker{
		presence: presence,
		window:   window,
		log:      log,
	}
}

// RidersAboard returns the deduplicated rider ids present on the trip.
// The result is sorted so repeated calls over unchanged data compare
// equal in tests.
func (t *PresenceTracker) RidersAboard(ctx context.Context, tripID string) ([]string, error) {
	since := time.Now().Add(-t.window)

	recent, err := t.presence.RidersWithRecentPings(ctx, tripID, since)
	if err != nil {
		return nil, fmt.Errorf("riders with recent pings: %w", err)
	}

	active, err := t.presence.RidersWithActiveJourney(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("riders with active journey: %w", err)
	}

	set := make(map[string]struct{}, len(recent)+len(active))
	for _, id := range recent {
		set[id] = struct{}{}
	}
	for _, id := range active {
		set[id] = struct{}{}
	}

	riders := make([]string, 0, len(set))
	for id := range set {
		riders = append(riders, id)
	}
	sort.Strings(riders)

	t.log.Debug(logger.Entry{
		Action:  "presence_computed",
		Message: fmt.Sprintf("%d riders aboard", len(riders)),
		TripID:  tripID,
		Additional: map[string]any{
			"window_minutes": t.window.Minutes(),
		},
	})

	return riders, nil
}

// IsAboard reports whether a single rider is present on the trip
func (t *PresenceTracker) IsAboard(ctx context.Context, tripID, riderID string) (bool, error) {
	riders, err := t.RidersAboard(ctx, tripID)
	if err != nil {
		return false, err
	}
	for _, id := range riders {
		if id == riderID {
			return true, nil
		}
	}
	return false, nil
}
