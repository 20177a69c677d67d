package in

import (
	"context"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// CreateReportInput — a new incident filed by a rider
type CreateReportInput struct {
	AuthorID      string                `json:"author_id"`
	AuthorRole    rider.Role            `json:"author_role"`
	VehicleTripID string                `json:"vehicle_trip_id"`
	Category      domain.ReportCategory `json:"category"`
	Description   string                `json:"description"`
	Latitude      *float64              `json:"latitude,omitempty"`
	Longitude     *float64              `json:"longitude,omitempty"`
}

// ReportLifecycleUseCase covers creation, lookup and moderation of
// reports outside the voting path.
type ReportLifecycleUseCase interface {
	Create(ctx context.Context, input CreateReportInput) (*domain.Report, error)
	Get(ctx context.Context, reportID string) (*domain.Report, error)

	// Resolve closes an incident; admin/dispatcher only (checked by the
	// caller's transport layer against the rider role).
	Resolve(ctx context.Context, reportID string) (*domain.Report, error)
}
