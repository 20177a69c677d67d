package out

import (
	"context"
	"time"
)

// PresenceRepository exposes the two read-only queries the presence
// tracker unions: recent GPS pings and active personal journeys.
type PresenceRepository interface {
	// RidersWithRecentPings returns ids of riders with a location ping
	// tagged to the trip at or after since.
	RidersWithRecentPings(ctx context.Context, tripID string, since time.Time) ([]string, error)

	// RidersWithActiveJourney returns ids of riders whose journey is in
	// progress and who have any ping tagged to the trip, regardless of
	// ping age.
	RidersWithActiveJourney(ctx context.Context, tripID string) ([]string, error)
}
