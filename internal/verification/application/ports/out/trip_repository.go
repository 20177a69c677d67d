package out

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// TripRepository is the read contract for vehicle trips and their
// scheduled stops
type TripRepository interface {
	FindByID(ctx context.Context, tripID string) (*domain.VehicleTrip, error)
	StopsByRoute(ctx context.Context, routeID string) ([]*domain.RouteStop, error)
}
