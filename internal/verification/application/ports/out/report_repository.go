package out

import (
	"context"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// ReportRepository is the persistence contract for incident reports
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	FindByID(ctx context.Context, reportID string) (*domain.Report, error)

	// LockForVote loads the report under a row-level exclusive lock.
	// Must be called inside a transaction; the lock is held until the
	// transaction ends, serializing all vote processing per report.
	LockForVote(ctx context.Context, reportID string) (*domain.Report, error)

	// MarkVerified applies the one-way transition to verified and
	// raises confidence to 100. Never un-verifies.
	MarkVerified(ctx context.Context, reportID string, byAdmin bool, at time.Time) error

	Resolve(ctx context.Context, reportID string, at time.Time) (*domain.Report, error)

	// OpenIncidentsByTrip returns unresolved reports on the trip
	// created at or after since (the incident-impact window).
	OpenIncidentsByTrip(ctx context.Context, tripID string, since time.Time) ([]*domain.Report, error)

	// FindVerifiedDelayReport returns a verified, unresolved report in
	// a delay-relevant category for the trip, or nil when none exists.
	FindVerifiedDelayReport(ctx context.Context, tripID string) (*domain.Report, error)
}
